package handler

import (
	"regexp"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)(:[0-5]\d)?$`)

// parseOptionalDate treats an absent or empty value as "no bound",
// never as an error.
func parseOptionalDate(value, field string) (*time.Time, []FieldError) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, []FieldError{{Field: field, Message: "invalid date format (YYYY-MM-DD)"}}
	}
	return &t, nil
}

// normalizeTime validates "HH:mm" or "HH:mm:ss" and returns the
// canonical "HH:mm:ss" form. Empty input is allowed; the ledger fills
// the commit-time default.
func normalizeTime(value string) (string, bool) {
	if value == "" {
		return "", true
	}
	if !timePattern.MatchString(value) {
		return "", false
	}
	if len(value) == 5 {
		value += ":00"
	}
	return value, true
}

func parsePositiveInt(value string, fallback int) (int, bool) {
	if value == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
