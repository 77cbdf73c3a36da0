package report

import (
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMinor renders a minor-unit amount for display in the given language,
// e.g. "R$ 1.234,56" for BRL in pt-BR. The number shown is exactly the
// two-decimal value ToMajorUnits yields, whatever the currency. Unknown
// currency codes fall back to the number followed by the code. Zero never
// renders with a minus sign.
func FormatMinor(minor int64, code string, tag language.Tag) string {
	p := message.NewPrinter(tag)
	num := formatMajor(p, minor)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return num + " " + code
	}
	return p.Sprint(currency.Symbol(unit)) + " " + num
}

// formatMajor prints minor/100 with the printer's grouping and decimal
// separator. The whole part is formatted as an integer so no precision is
// lost to float64.
func formatMajor(p *message.Printer, minor int64) string {
	abs := uint64(minor)
	if minor < 0 {
		abs = uint64(-(minor + 1)) + 1
	}
	whole, frac := abs/100, abs%100

	// "0.05" in the printer's locale; drop the leading zero to keep the
	// separator and the two fraction digits.
	fraction := p.Sprintf("%.2f", float64(frac)/100)
	_, size := utf8.DecodeRuneInString(fraction)

	out := p.Sprintf("%d", whole) + fraction[size:]
	if minor < 0 {
		out = "-" + out
	}
	return out
}
