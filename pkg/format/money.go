package format

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is an amount in the currency's cash minor unit (VND and IDR have none, USD has cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Add sums two amounts of the same currency; an empty currency adopts the other side.
func (m Money) Add(o Money) Money {
	cur := m.Currency
	if cur == "" {
		cur = o.Currency
	}
	return Money{Amount: m.Amount + o.Amount, Currency: cur}
}

// Times multiplies the amount by n.
func (m Money) Times(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

type symbol struct {
	sign   string
	suffix bool
}

var symbols = map[string]symbol{
	"VND": {sign: "₫", suffix: true},
	"EUR": {sign: "€", suffix: true},
	"USD": {sign: "$"},
	"GBP": {sign: "£"},
	"JPY": {sign: "¥"},
	"IDR": {sign: "Rp "},
}

// Scale reports the number of fractional digits used for cash amounts in code.
func Scale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0
	}
	scale, _ := currency.Cash.Rounding(unit)
	return scale
}

// FormatCurrency renders m with the locale's digit grouping and the currency symbol.
func FormatCurrency(lang language.Tag, m Money) string {
	code := strings.ToUpper(m.Currency)
	scale := Scale(code)

	p := message.NewPrinter(lang)
	value := float64(m.Amount) / math.Pow10(scale)
	digits := p.Sprintf("%v", number.Decimal(value, number.Scale(scale)))

	sym, known := symbols[code]
	switch {
	case !known && code == "":
		return digits
	case !known:
		return digits + " " + code
	case sym.suffix:
		return digits + " " + sym.sign
	default:
		return sym.sign + digits
	}
}
