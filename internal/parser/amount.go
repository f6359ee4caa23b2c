// Package parser turns the funding section of an article into structured items.
// It targets exactly one source's markup conventions and uses deterministic
// text rules; see the package tests for the sentence shapes it understands.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// amountPattern matches "$<number><K|M|B> <remainder>". The remainder is
// greedy up to the next period, so multi-amount sentences mis-split; this is
// a known limitation of the source rules.
var amountPattern = regexp.MustCompile(`\$(\d+\.?\d*)([KMB]) ([^.]+)`)

// undisclosedPattern matches "raised an undisclosed <phrase> Round".
var undisclosedPattern = regexp.MustCompile(`(?i)raised an undisclosed\s+([a-zA-Z\s]+?Round)`)

// multipliers maps amount suffixes to their dollar multipliers.
var multipliers = map[string]float64{
	"K": 1_000,
	"M": 1_000_000,
	"B": 1_000_000_000,
}

// ParseAmount extracts the raised amount and a raw round candidate from a
// funding sentence. The candidate still needs NormalizeRound. ok is false
// when no amount could be parsed at all; an amount of 0 with ok=true means
// the raise was disclosed as undisclosed.
func ParseAmount(text string) (amount int64, roundCandidate string, ok bool) {
	if m := amountPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, "", false
		}
		amount = int64(value * multipliers[m[2]])
		candidate, _, _ := strings.Cut(m[3], "from")
		return amount, strings.TrimSpace(candidate), true
	}

	if m := undisclosedPattern.FindStringSubmatch(text); m != nil {
		return 0, strings.TrimSpace(m[1]), true
	}

	return 0, "", false
}

// NormalizeRound cleans a raw round candidate into a human-readable label
// such as "Series A". Returns "" when nothing survives the stripping rules.
func NormalizeRound(candidate string) string {
	s := strings.ToLower(strings.TrimSpace(candidate))
	s = strings.ReplaceAll(s, "round", "")
	s = cutBefore(s, "and")
	s = cutBefore(s, "(")
	s = strings.ReplaceAll(s, "from", "")
	s = strings.ReplaceAll(s, "in ", "")
	s = cutBefore(s, "with")
	s = cutBefore(s, "but")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// cutBefore returns the part of s before the first occurrence of sep,
// or s unchanged when sep is absent.
func cutBefore(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

// capitalize upper-cases the first rune of an already-lowercased word.
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
