package srt

import (
	"regexp"
	"strings"
)

// DefaultMaxLineLength is the character threshold beyond which a single-line
// cue is rebalanced onto two lines.
const DefaultMaxLineLength = 16

// tokenPattern keeps digit groups separated by single spaces ("128 000")
// together as one token so numbers are never split across lines.
var tokenPattern = regexp.MustCompile(`\d+(?: \d+)*|\S+`)

// SplitLongLines rebalances single-line cues longer than maxLength onto two
// lines at the whitespace boundary that minimizes the length difference.
// Cues already on two lines, and single tokens that cannot be split, are
// returned unchanged. A maxLength <= 0 selects DefaultMaxLineLength.
func SplitLongLines(cues []Cue, maxLength int) []Cue {
	if maxLength <= 0 {
		maxLength = DefaultMaxLineLength
	}
	out := make([]Cue, len(cues))
	for i, cue := range cues {
		out[i] = cue
		if len(cue.Lines) != 1 || len(cue.Lines[0]) <= maxLength {
			continue
		}
		tokens := tokenPattern.FindAllString(cue.Lines[0], -1)
		if len(tokens) < 2 {
			continue
		}
		first, second := balanceTokens(tokens)
		out[i].Lines = []string{first, second}
	}
	return out
}

func balanceTokens(tokens []string) (string, string) {
	bestSplit := 1
	bestDiff := -1
	for split := 1; split < len(tokens); split++ {
		left := len(strings.Join(tokens[:split], " "))
		right := len(strings.Join(tokens[split:], " "))
		diff := left - right
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			bestSplit = split
		}
	}
	return strings.Join(tokens[:bestSplit], " "), strings.Join(tokens[bestSplit:], " ")
}
