package export

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders fee amounts in a fixed currency and locale.
type MoneyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewMoneyFormatter builds a formatter for the ISO currency code and BCP 47 locale.
// Unknown values fall back to USD and en-US.
func NewMoneyFormatter(code, locale string) *MoneyFormatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &MoneyFormatter{unit: unit, printer: message.NewPrinter(tag)}
}

// Format renders amount with the currency symbol, e.g. "$1,050.00". Alphabetic
// symbols such as "CHF" keep a separating space.
func (f *MoneyFormatter) Format(amount float64) string {
	symbol := f.printer.Sprint(currency.Symbol(f.unit))
	value := f.printer.Sprint(number.Decimal(amount, number.Scale(2)))
	if last, _ := utf8.DecodeLastRuneInString(symbol); unicode.IsLetter(last) {
		return symbol + " " + value
	}
	return symbol + value
}

// Code returns the ISO currency code.
func (f *MoneyFormatter) Code() string {
	return f.unit.String()
}
