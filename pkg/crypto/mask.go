package crypto

import "strings"

// Masker formats card numbers for display, keeping only the trailing
// digits visible.
type Masker struct {
	visibleDigits int
	maskChar      rune
}

// NewMasker creates a Masker
func NewMasker(visibleDigits int, maskChar rune) *Masker {
	return &Masker{
		visibleDigits: visibleDigits,
		maskChar:      maskChar,
	}
}

// MaskCardNumber masks all but the trailing visible digits and groups the
// result into 4-character blocks separated by spaces. Input no longer than
// the visible length is returned unchanged; empty input yields an empty
// string.
func (m *Masker) MaskCardNumber(cardNumber string) string {
	if cardNumber == "" {
		return ""
	}

	if len(cardNumber) <= m.visibleDigits {
		return cardNumber
	}

	lastDigits := cardNumber[len(cardNumber)-m.visibleDigits:]
	masked := strings.Repeat(string(m.maskChar), len(cardNumber)-m.visibleDigits) + lastDigits

	var formatted strings.Builder
	for i, ch := range masked {
		if i > 0 && i%4 == 0 {
			formatted.WriteByte(' ')
		}
		formatted.WriteRune(ch)
	}

	return formatted.String()
}
