package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ItemsParam always gets a structured parse attempt, bracketed or not,
// because it carries the order line list.
const ItemsParam = "items"

var (
	argPattern     = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)'|(\[[^\]]*\])|([^,)]+))`)
	integerPattern = regexp.MustCompile(`^\d+$`)
	decimalPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// CoerceArgs turns a raw argument list into typed keyword arguments.
// Coercion never fails: anything unrecognized stays a trimmed string.
func CoerceArgs(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	args := make(map[string]any)
	for _, idx := range argPattern.FindAllStringSubmatchIndex(raw, -1) {
		key := raw[idx[2]:idx[3]]

		// Group offsets are -1 for alternatives that did not match, which
		// keeps an empty quoted value distinct from a missing group.
		switch {
		case idx[4] >= 0: // double-quoted
			args[key] = coerceQuoted(key, raw[idx[4]:idx[5]])
		case idx[6] >= 0: // single-quoted
			args[key] = coerceQuoted(key, raw[idx[6]:idx[7]])
		case idx[8] >= 0: // bracketed
			args[key] = coerceStructured(raw[idx[8]:idx[9]])
		default: // bare token
			args[key] = coerceScalar(key, strings.TrimSpace(raw[idx[10]:idx[11]]))
		}
	}
	return args
}

// coerceQuoted keeps quoted values as strings, except the items list,
// which still gets a structured parse attempt.
func coerceQuoted(key, value string) any {
	if key == ItemsParam {
		return coerceStructured(value)
	}
	return value
}

// coerceStructured parses a bracketed value as JSON, falling back to the
// raw text when it is not valid JSON.
func coerceStructured(raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}

func coerceScalar(key, raw string) any {
	if key == ItemsParam {
		return coerceStructured(raw)
	}
	if integerPattern.MatchString(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	if decimalPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}
