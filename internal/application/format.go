package application

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"realtrade/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	ColorNonNegative = "#10b981"
	ColorNegative    = "#ef4444"
)

var smallValue = decimal.New(1, -2)

// Percentage is a signed, color-coded percentage ready for display.
type Percentage struct {
	Text        string
	Color       string
	NonNegative bool
}

func localeFor(counter string) language.Tag {
	if counter == "BRL" {
		return language.BrazilianPortuguese
	}
	return language.AmericanEnglish
}

// FractionDigits returns 6 for non-zero magnitudes below 0.01 and 2 otherwise.
func FractionDigits(v decimal.Decimal) int {
	if !v.IsZero() && v.Abs().LessThan(smallValue) {
		return 6
	}
	return 2
}

// FormatCurrency renders v in the quote currency of pair with locale grouping
// and symbol. The sign leads the symbol ("-R$ 1,20", "-$1.08").
func FormatCurrency(v decimal.Decimal, pair domain.Pair) string {
	counter := pair.Counter()
	tag := localeFor(counter)
	p := message.NewPrinter(tag)
	digits := int32(FractionDigits(v))
	rounded := v.Round(digits)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	sym := symbolFor(p, counter)
	sep := ""
	if tag == language.BrazilianPortuguese || endsWithLetter(sym) {
		sep = " "
	}
	return sign + sym + sep + groupDigits(rounded.Abs().StringFixed(digits), separatorsFor(p))
}

type separators struct{ group, decimal string }

// separatorsFor reads the locale's grouping and decimal marks from x/text so
// the digits themselves can come straight from the decimal.
func separatorsFor(p *message.Printer) separators {
	sample := []rune(p.Sprint(number.Decimal(1234.5, number.MinFractionDigits(1))))
	if len(sample) != 7 {
		return separators{group: ",", decimal: "."}
	}
	return separators{group: string(sample[1]), decimal: string(sample[5])}
}

// groupDigits localizes a plain "1234.56" string.
func groupDigits(plain string, seps separators) string {
	intPart, frac, _ := strings.Cut(plain, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(seps.group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(seps.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

func endsWithLetter(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsLetter(r)
}

func symbolFor(p *message.Printer, code string) string {
	u, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	return p.Sprint(currency.Symbol(u))
}

// FormatPercentage renders v with an explicit sign and two fractional digits.
// Values that round to zero keep the sign of v.
func FormatPercentage(v decimal.Decimal) Percentage {
	text := v.Abs().StringFixed(2) + "%"
	if v.IsNegative() {
		return Percentage{Text: "-" + text, Color: ColorNegative}
	}
	return Percentage{Text: "+" + text, Color: ColorNonNegative, NonNegative: true}
}

const timestampLayout = "02/01/2006 15:04:05"

// FormatTimestamp renders t as dd/mm/yyyy hh:mm:ss in loc (UTC when nil).
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "Data não disponível"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timestampLayout)
}
