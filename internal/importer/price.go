package importer

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyTokens = regexp.MustCompile(`(?i)\bpkr|\brs\.?|₨|₹|\$`)
	thousandsGroup = regexp.MustCompile(`,\d{3}`)
	decimalComma   = regexp.MustCompile(`,\d{2}$`)
	leadingNumber  = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// NormalizePrice converts a partner price label into a number. Commas
// followed by three digits are thousands separators; a trailing comma with
// two digits is a decimal point, so "12,34" reads as 12.34. Anything that
// does not start with a number after cleanup yields 0.
func NormalizePrice(text string) float64 {
	cleaned := currencyTokens.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), "")

	if thousandsGroup.MatchString(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else if decimalComma.MatchString(cleaned) {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	number := leadingNumber.FindString(cleaned)
	if number == "" {
		return 0
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
