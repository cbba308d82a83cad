// Package validate holds the input checks shared by the HTTP handlers and
// the checkout form.
package validate

import (
	"regexp"
	"strings"
)

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)
	reKey      = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)
)

// ID validates a simple resource identifier (product/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// ContentKey validates a site content key such as "nav_items".
func ContentKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reKey.MatchString(s)
}

// Keys splits a comma separated key list, dropping blanks and invalid keys.
func Keys(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if k, ok := ContentKey(part); ok {
			out = append(out, k)
		}
	}
	return out
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 1 && l <= 72
}
