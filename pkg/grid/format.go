package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is the display text of an absent value.
const Placeholder = "-"

// currencySymbols maps the currencies the dashboard displays to their
// symbols; other units fall back to their ISO code.
var currencySymbols = map[currency.Unit]string{
	currency.BRL: "R$",
	currency.USD: "US$",
	currency.EUR: "€",
}

// Formatter renders row values as display text for a locale.
type Formatter struct {
	printer    *message.Printer
	unit       currency.Unit
	scale      int
	dateLayout string
	yes, no    string
}

// NewFormatter returns a Formatter for the given locale and currency.
func NewFormatter(tag language.Tag, unit currency.Unit, dateLayout, yes, no string) *Formatter {
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		printer:    message.NewPrinter(tag),
		unit:       unit,
		scale:      scale,
		dateLayout: dateLayout,
		yes:        yes,
		no:         no,
	}
}

// BrazilianFormatter formats values the way the court dashboards display
// them: pt-BR grouping, BRL currency, dd/mm/yyyy dates.
func BrazilianFormatter() *Formatter {
	return NewFormatter(language.BrazilianPortuguese, currency.BRL, "02/01/2006", "Sim", "Não")
}

// Format renders v for a column of type t. Absent values render as
// Placeholder for every type.
func (f *Formatter) Format(t ColumnType, v any) string {
	if v == nil || isNilPointer(v) {
		return Placeholder
	}
	switch t {
	case TypeCurrency:
		n, ok := toFloat(v)
		if !ok {
			return fmt.Sprint(v)
		}
		return f.Currency(n)
	case TypeNumber:
		n, ok := toFloat(v)
		if !ok {
			return fmt.Sprint(v)
		}
		return f.Number(n)
	case TypeBoolean:
		if truthy(v) {
			return f.yes
		}
		return f.no
	case TypeDate:
		return f.Date(v)
	default:
		return editText(v)
	}
}

// Currency formats n with the currency symbol and standard scale.
func (f *Formatter) Currency(n float64) string {
	sym, ok := currencySymbols[f.unit]
	if !ok {
		sym = f.unit.String()
	}
	return sym + " " + f.printer.Sprintf("%."+strconv.Itoa(f.scale)+"f", n)
}

// Number formats n with locale grouping and up to three fraction digits.
func (f *Formatter) Number(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return f.printer.Sprintf("%d", int64(n))
	}
	digits := fractionDigits(n, 3)
	return f.printer.Sprintf("%."+strconv.Itoa(digits)+"f", n)
}

// Date formats time values and RFC 3339 or yyyy-mm-dd strings. Text that
// does not parse is returned as is.
func (f *Formatter) Date(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(f.dateLayout)
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
			if t, err := time.Parse(layout, x); err == nil {
				return t.Format(f.dateLayout)
			}
		}
		return x
	default:
		return fmt.Sprint(v)
	}
}

// fractionDigits returns the number of significant fraction digits of n,
// capped at limit.
func fractionDigits(n float64, limit int) int {
	s := strconv.FormatFloat(n, 'f', limit, 64)
	_, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	return len(frac)
}
