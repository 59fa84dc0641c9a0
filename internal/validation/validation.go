package validation

import (
	"errors"
	"strings"
)

// ErrQueryEmpty is returned when the query is empty or whitespace-only after trim.
var ErrQueryEmpty = errors.New("query is required")

// ErrQueryTooShort is returned when the query length is below the minimum.
var ErrQueryTooShort = errors.New("query too short")

// ErrQueryTooLong is returned when the query length exceeds the maximum.
var ErrQueryTooLong = errors.New("query too long")

// ValidateQuery trims the input and enforces length bounds (minLen, maxLen
// in runes). Validation failures are reported before any network call is
// made; the weather client may assume a non-trivial string.
func ValidateQuery(input string, minLen, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	n := len([]rune(s))
	if n == 0 {
		return "", ErrQueryEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrQueryTooShort
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrQueryTooLong
	}
	return s, nil
}
