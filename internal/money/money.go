// Package money parses and compares currency amounts read from rendered pages.
//
// Amounts are exact decimals. Totals computed independently by different pages
// are compared with CloseTo and an explicit epsilon, never with float equality.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var (
	// ErrUnparsable is returned when text carries no amount
	ErrUnparsable = errors.New("no monetary amount in text")
	// ErrAmbiguous is returned when text carries more than one number
	ErrAmbiguous = errors.New("more than one number in text")
)

var (
	decimalCtx  = apd.BaseContext.WithPrecision(34)
	numberToken = regexp.MustCompile(`\d(?:[\d.,\x{00a0}\x{202f}]*\d)?`)
	// a minus that starts a word, followed only by currency symbols or spaces up to the number
	leadingMinus = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])[-\x{2212}]\s*[^\p{L}\p{N}\s]{0,3}\s*$`)
)

// Amount is an exact decimal currency value. The zero value is 0.
type Amount struct {
	d *apd.Decimal
}

// Cent is the default comparison epsilon for display totals
var Cent = FromCents(1)

// FromCents builds an amount from minor units
func FromCents(cents int64) Amount {
	return Amount{d: apd.New(cents, -2)}
}

// MustParse is Parse for literals known to be valid
func MustParse(text string) Amount {
	a, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return a
}

// Parse extracts the single amount in a display string such as "$12.50",
// "Subtotal: $1,234.50" or "12,50 €". A minus sign directly before the number,
// optionally separated by a currency symbol, makes it negative; hyphens inside
// labels such as "Sub-total" or "ABC-12" do not.
func Parse(text string) (Amount, error) {
	locs := numberToken.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrUnparsable, text)
	}
	if len(locs) > 1 {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmbiguous, text)
	}

	raw := text[locs[0][0]:locs[0][1]]
	raw = strings.NewReplacer("\u00a0", "", "\u202f", "").Replace(raw)
	normalized, err := normalizeSeparators(raw)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", err, text)
	}

	d, _, err := apd.NewFromString(normalized)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrUnparsable, text, err)
	}
	if leadingMinus.MatchString(text[:locs[0][0]]) {
		d.Neg(d)
	}
	return Amount{d: d}, nil
}

// normalizeSeparators rewrites grouping and decimal marks to plain "1234.50"
func normalizeSeparators(s string) (string, error) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	decimalAt := -1
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalAt = max(lastDot, lastComma)
	case lastDot >= 0 || lastComma >= 0:
		idx := max(lastDot, lastComma)
		// a single mark followed by one or two digits is a decimal mark; otherwise grouping
		if strings.Count(s, s[idx:idx+1]) == 1 && len(s)-idx-1 <= 2 {
			decimalAt = idx
		}
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case i == decimalAt:
			b.WriteByte('.')
		}
	}
	out := b.String()
	if out == "" || strings.HasPrefix(out, ".") {
		return "", ErrUnparsable
	}
	return out, nil
}

func (a Amount) dec() *apd.Decimal {
	if a.d == nil {
		return apd.New(0, 0)
	}
	return a.d
}

// Add returns a + b
func (a Amount) Add(b Amount) Amount {
	res := new(apd.Decimal)
	if _, err := decimalCtx.Add(res, a.dec(), b.dec()); err != nil {
		panic(fmt.Sprintf("money: add: %v", err))
	}
	return Amount{d: res}
}

// Sub returns a - b
func (a Amount) Sub(b Amount) Amount {
	res := new(apd.Decimal)
	if _, err := decimalCtx.Sub(res, a.dec(), b.dec()); err != nil {
		panic(fmt.Sprintf("money: sub: %v", err))
	}
	return Amount{d: res}
}

// Cmp compares a and b and returns -1, 0 or +1
func (a Amount) Cmp(b Amount) int {
	return a.dec().Cmp(b.dec())
}

// CloseTo reports whether |a - b| <= epsilon
func (a Amount) CloseTo(b, epsilon Amount) bool {
	diff := a.Sub(b)
	abs := new(apd.Decimal).Abs(diff.dec())
	return abs.Cmp(new(apd.Decimal).Abs(epsilon.dec())) <= 0
}

// Cents returns the amount in minor units, rounded half up
func (a Amount) Cents() (int64, error) {
	scaled := new(apd.Decimal)
	if _, err := decimalCtx.Mul(scaled, a.dec(), apd.New(100, 0)); err != nil {
		return 0, err
	}
	rounded := new(apd.Decimal)
	if _, err := decimalCtx.Quantize(rounded, scaled, 0); err != nil {
		return 0, err
	}
	return rounded.Int64()
}

// String renders the amount with two decimals, e.g. "19.75"
func (a Amount) String() string {
	q := new(apd.Decimal)
	if _, err := decimalCtx.Quantize(q, a.dec(), -2); err != nil {
		return a.dec().Text('f')
	}
	return q.Text('f')
}
