package util

import "strconv"

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// LeadingInt returns the integer prefix of s (e.g. "15min" -> 15).
// Returns def when s has no numeric prefix.
func LeadingInt(s string, def int) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return def
	}
	v, err := strconv.Atoi(s[:i])
	if err != nil {
		return def
	}
	return v
}
