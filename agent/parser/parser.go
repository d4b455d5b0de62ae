// Package parser extracts tool invocations from language model
// completions. The textual contract is a case-insensitive "TOOL:" marker
// followed by an identifier and a parenthesized argument list; everything
// else in a completion is plain answer text.
package parser

import (
	"regexp"
	"strings"
)

// Marker introduces a tool invocation inside a completion.
const Marker = "TOOL:"

var invocationPattern = regexp.MustCompile(`(?is)TOOL:\s*(\w+)\((.*?)\)`)

// Invocation is one parsed tool call, argument list still raw.
type Invocation struct {
	Name    string
	RawArgs string
}

// HasMarker reports whether the completion contains the tool marker,
// case-insensitively.
func HasMarker(text string) bool {
	return strings.Contains(strings.ToUpper(text), Marker)
}

// Parse returns every invocation in the completion in order of
// appearance. A completion without markers yields nil.
func Parse(text string) []Invocation {
	matches := invocationPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	invocations := make([]Invocation, 0, len(matches))
	for _, m := range matches {
		invocations = append(invocations, Invocation{
			Name:    m[1],
			RawArgs: strings.TrimSpace(m[2]),
		})
	}
	return invocations
}
