package table

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxCellRunes = 50

var (
	centsAmount = regexp.MustCompile(`^\d+\.\d{2}$`)
	wordStart   = regexp.MustCompile(`\b\w`)
)

// HeaderName turns a column key into a display header: underscores become
// spaces and every word character after a non-word character is upper-cased
// ("user_name" -> "User Name", "user-id" -> "User-Id").
func HeaderName(column string) string {
	return wordStart.ReplaceAllStringFunc(strings.ReplaceAll(column, "_", " "), strings.ToUpper)
}

// CellText renders a cell for the table view.
func CellText(column, value string) string {
	if value == "" {
		return "-"
	}
	if strings.Contains(column, "amount") && centsAmount.MatchString(value) {
		if s, ok := formatAmount(value); ok {
			return s
		}
	}
	if column == "fraud" || strings.HasPrefix(column, "rule_") {
		switch value {
		case "1", "True":
			return "Yes"
		case "0", "False":
			return "No"
		}
	}
	if column == "state" {
		switch value {
		case "declined":
			return "Declined"
		case "pending":
			return "Pending"
		}
	}
	if utf8.RuneCountInString(value) > maxCellRunes {
		return string([]rune(value)[:maxCellRunes]) + "..."
	}
	return value
}

// formatAmount renders "1234.50" as "$1,234.5": grouped integer part,
// trailing fractional zeros dropped.
func formatAmount(value string) (string, bool) {
	whole, frac, _ := strings.Cut(value, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "", false
	}
	out := "$" + statsPrinter.Sprintf("%d", n)
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		out += "." + frac
	}
	return out, true
}
