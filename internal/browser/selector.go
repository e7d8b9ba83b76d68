package browser

import (
	"fmt"
	"strings"
)

type selectorKind int

const (
	kindCSS selectorKind = iota
	kindTestID
	kindText
)

type selectorPart struct {
	kind  selectorKind
	value string
	nth   int // -1 when unset
}

// Selector identifies elements by stable test IDs, visible text or CSS.
// Selectors are immutable; Nth and Child return new values.
type Selector struct {
	parts []selectorPart
}

// ByTestID matches elements carrying data-testid=id
func ByTestID(id string) Selector {
	return Selector{parts: []selectorPart{{kind: kindTestID, value: id, nth: -1}}}
}

// ByText matches elements whose visible text contains text
func ByText(text string) Selector {
	return Selector{parts: []selectorPart{{kind: kindText, value: text, nth: -1}}}
}

// ByCSS matches a CSS selector
func ByCSS(css string) Selector {
	return Selector{parts: []selectorPart{{kind: kindCSS, value: css, nth: -1}}}
}

// Nth narrows the last part of the selector to its i-th match
func (s Selector) Nth(i int) Selector {
	if len(s.parts) == 0 {
		return s
	}
	parts := append([]selectorPart(nil), s.parts...)
	parts[len(parts)-1].nth = i
	return Selector{parts: parts}
}

// Child scopes c inside s
func (s Selector) Child(c Selector) Selector {
	parts := make([]selectorPart, 0, len(s.parts)+len(c.parts))
	parts = append(parts, s.parts...)
	parts = append(parts, c.parts...)
	return Selector{parts: parts}
}

// IsZero reports whether the selector matches nothing in particular
func (s Selector) IsZero() bool {
	return len(s.parts) == 0
}

func (s Selector) String() string {
	segs := make([]string, 0, len(s.parts)*2)
	for _, p := range s.parts {
		switch p.kind {
		case kindTestID:
			segs = append(segs, "testid="+p.value)
		case kindText:
			segs = append(segs, fmt.Sprintf("text=%q", p.value))
		default:
			segs = append(segs, "css="+p.value)
		}
		if p.nth >= 0 {
			segs = append(segs, fmt.Sprintf("nth=%d", p.nth))
		}
	}
	return strings.Join(segs, " >> ")
}
