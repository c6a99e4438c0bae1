// Package format renders values the way the association's documents show them:
// Brazilian CPF and phone masks, BRL amounts, Portuguese month names.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonDigit = regexp.MustCompile(`\D`)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var monthShortNames = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
	ISODateLayout  = "2006-01-02"
)

func Digits(value string) string {
	return nonDigit.ReplaceAllString(value, "")
}

// CPF masks an 11-digit CPF as xxx.xxx.xxx-xx. Partial input is masked as
// far as it goes; longer input is returned unchanged.
func CPF(value string) string {
	d := Digits(value)
	if len(d) > 11 {
		return value
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// Phone masks landlines as (dd) dddd-dddd and mobiles as (dd) ddddd-dddd.
func Phone(value string) string {
	d := Digits(value)
	if len(d) < 6 {
		return d
	}
	split := 6
	if len(d) > 10 {
		split = 7
		if len(d) > 11 {
			d = d[:11]
		}
	}
	if len(d) <= split {
		return fmt.Sprintf("(%s) %s-", d[:2], d[2:])
	}
	return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:split], d[split:])
}

// Money renders an amount as "R$ 1234,56".
func Money(amount decimal.Decimal) string {
	return "R$ " + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}

// Percent renders a ratio already multiplied by 100 with two decimals.
func Percent(value decimal.Decimal) string {
	return value.StringFixed(2) + "%"
}

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count in base 1024 with at most two decimals.
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	value := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + fileSizeUnits[i]
}

func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

func MonthShortName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthShortNames[month-1]
}

// Period renders "Março/2024".
func Period(year, month int) string {
	return fmt.Sprintf("%s/%d", MonthName(month), year)
}

// Title capitalises a status word, e.g. "ativo" becomes "Ativo".
func Title(value string) string {
	return titleCaser.String(value)
}

func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}

// ParseISODate parses an optional yyyy-mm-dd value; nil or blank input yields nil.
func ParseISODate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func OrDash(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "-"
	}
	return *value
}

// Slug lowercases a name and joins its words with dashes, for file names.
func Slug(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), "-"))
}
