package utils

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

// México separa miles con coma y decimales con punto, igual que en-US
var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency formatea un monto sin decimales.
// Ejemplo: 2500000 MXN -> "$2,500,000"; 1500 USD -> "USD 1,500".
// Un código que no es ISO 4217 se muestra como pesos.
func FormatCurrency(amount float64, code string) string {
	rounded := int64(math.Round(amount))
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}

	symbol := "$"
	if unit, err := currency.ParseISO(code); err == nil && unit != currency.MXN {
		symbol = unit.String() + " "
	}
	return sign + symbol + amountPrinter.Sprintf("%d", rounded)
}

// FormatPhone formatea un teléfono de 10 dígitos como (XXX) XXX-XXXX
// y uno internacional como +CC (XXX) XXX-XXXX. Otros largos se regresan igual.
func FormatPhone(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	switch {
	case len(cleaned) == 10:
		return "(" + cleaned[:3] + ") " + cleaned[3:6] + "-" + cleaned[6:]
	case len(cleaned) > 10:
		n := len(cleaned)
		return "+" + cleaned[:n-10] + " (" + cleaned[n-10:n-7] + ") " + cleaned[n-7:n-4] + "-" + cleaned[n-4:]
	}
	return phone
}

// IsValidEmail valida el formato básico de un correo
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone acepta 10 dígitos o 12 (+52 XXXXXXXXXX)
func IsValidPhone(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) == 10 || len(cleaned) == 12
}

// CommissionSplit es el reparto de una comisión entre los dos agentes
type CommissionSplit struct {
	Total     decimal.Decimal `json:"total"`
	Primary   decimal.Decimal `json:"primary"`
	Secondary decimal.Decimal `json:"secondary"`
}

var (
	primaryShare   = decimal.NewFromFloat(0.30)
	secondaryShare = decimal.NewFromFloat(0.70)
	brokerShare    = decimal.NewFromInt(2)
	hundred        = decimal.NewFromInt(100)
)

// CalculateCommission calcula la comisión total y el reparto 30/70.
// Si se comparte con otro broker, primero se divide a la mitad.
func CalculateCommission(propertyValue, commissionPercentage float64, splitWithBroker bool) CommissionSplit {
	total := decimal.NewFromFloat(propertyValue).
		Mul(decimal.NewFromFloat(commissionPercentage)).
		Div(hundred)

	if splitWithBroker {
		total = total.Div(brokerShare)
	}

	return CommissionSplit{
		Total:     total.Round(2),
		Primary:   total.Mul(primaryShare).Round(2),
		Secondary: total.Mul(secondaryShare).Round(2),
	}
}

// Initials devuelve hasta dos iniciales en mayúsculas
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// Truncate corta el texto y agrega "..." si excede maxLength
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

// DaysBetween devuelve los días (redondeando hacia arriba) entre dos fechas
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// IsUpcoming indica si date cae entre now y now + daysAhead
func IsUpcoming(date, now time.Time, daysAhead int) bool {
	limit := now.AddDate(0, 0, daysAhead)
	return date.After(now) && date.Before(limit)
}

// NextAnniversary devuelve la próxima fecha (hoy incluido) en que se cumple
// el mes y día de date, y cuántos días faltan.
func NextAnniversary(date, now time.Time) (time.Time, int) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := time.Date(today.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = next.AddDate(1, 0, 0)
	}
	return next, int(next.Sub(today).Hours() / 24)
}
