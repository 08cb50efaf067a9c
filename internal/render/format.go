package render

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is shown for a missing population or an undefined average.
const NotAvailable = "N/A"

// Formatter turns report numbers into display strings. The zero value
// formats without digit grouping, which is what CSV export uses.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter groups digits according to tag.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{printer: message.NewPrinter(tag)}
}

// FormatterFor picks the first language of an Accept-Language header, falling back to English.
func FormatterFor(acceptLanguage string) Formatter {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return NewFormatter(language.English)
	}
	return NewFormatter(tags[0])
}

func (f Formatter) Int(n int64) string {
	if f.printer == nil {
		return strconv.FormatInt(n, 10)
	}
	return f.printer.Sprint(number.Decimal(n))
}

func (f Formatter) Float(v float64) string {
	if f.printer == nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Population renders an optional population, NotAvailable when absent.
func (f Formatter) Population(p *int64) string {
	if p == nil {
		return NotAvailable
	}
	return f.Int(*p)
}
