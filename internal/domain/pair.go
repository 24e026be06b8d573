package domain

import (
	"regexp"
	"strings"
)

// Pair is a currency pair code such as "USD-BRL".
type Pair string

var pairRe = regexp.MustCompile(`^[A-Z]{3,5}-[A-Z]{3,5}$`)

// ParsePair normalizes and validates a pair code. It does not consult the catalog.
func ParsePair(s string) (Pair, error) {
	p := Pair(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidatePair(string(p)) {
		return "", ErrInvalidPair
	}
	return p, nil
}

func ValidatePair(p string) bool {
	if !pairRe.MatchString(p) {
		return false
	}
	base, quote, _ := strings.Cut(p, "-")
	return base != quote
}

func (p Pair) Base() string {
	base, _, _ := strings.Cut(string(p), "-")
	return base
}

// Counter returns the quote currency of the pair.
func (p Pair) Counter() string {
	_, quote, _ := strings.Cut(string(p), "-")
	return quote
}

// Key is the pair without separator, as used by AwesomeAPI response maps.
func (p Pair) Key() string { return strings.ReplaceAll(string(p), "-", "") }

func (p Pair) String() string { return string(p) }
