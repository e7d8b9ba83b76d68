package browser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adyen/storefront-e2e/internal/money"
)

// Matcher decides whether an element's text is the expected one.
// An error means the text could not be interpreted at all.
type Matcher interface {
	Match(actual string) (bool, error)
	String() string
}

type equalsMatcher string

// Equals matches text equal to want after trimming surrounding whitespace
func Equals(want string) Matcher {
	return equalsMatcher(strings.TrimSpace(want))
}

func (m equalsMatcher) Match(actual string) (bool, error) {
	return strings.TrimSpace(actual) == string(m), nil
}

func (m equalsMatcher) String() string {
	return fmt.Sprintf("%q", string(m))
}

type containsMatcher string

// Contains matches text containing want
func Contains(want string) Matcher {
	return containsMatcher(want)
}

func (m containsMatcher) Match(actual string) (bool, error) {
	return strings.Contains(actual, string(m)), nil
}

func (m containsMatcher) String() string {
	return fmt.Sprintf("text containing %q", string(m))
}

type regexpMatcher struct {
	re *regexp.Regexp
}

// Matches matches text against a regular expression
func Matches(pattern string) Matcher {
	return regexpMatcher{re: regexp.MustCompile(pattern)}
}

func (m regexpMatcher) Match(actual string) (bool, error) {
	return m.re.MatchString(actual), nil
}

func (m regexpMatcher) String() string {
	return fmt.Sprintf("text matching /%s/", m.re)
}

type moneyMatcher struct {
	want    money.Amount
	epsilon money.Amount
}

// MoneyCloseTo matches a displayed amount within epsilon of want.
// Text without a parsable amount never matches.
func MoneyCloseTo(want, epsilon money.Amount) Matcher {
	return moneyMatcher{want: want, epsilon: epsilon}
}

func (m moneyMatcher) Match(actual string) (bool, error) {
	got, err := money.Parse(actual)
	if err != nil {
		return false, err
	}
	return got.CloseTo(m.want, m.epsilon), nil
}

func (m moneyMatcher) String() string {
	return fmt.Sprintf("%s ± %s", m.want, m.epsilon)
}
