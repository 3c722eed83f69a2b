package core

import (
	"os"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ValidateID checks that `id` is a well-formed record ID (24 hex chars)
// before any store call is attempted with it.
func ValidateID(id string) error {
	if !idRegex.MatchString(id) {
		return NewError(KindBadInput, "malformed id")
	}
	return nil
}

func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
