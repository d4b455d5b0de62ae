// Package prompt holds the agent's system prompt. A default prompt is
// embedded in the binary; a file path can override it at startup.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"bookdesk/agent/contract"
)

//go:embed template/system.txt
var defaultPrompt string

// Default returns the embedded system prompt.
func Default() string {
	return strings.TrimSpace(defaultPrompt)
}

// Load reads the system prompt from path, or returns the embedded default
// when path is empty. A path that cannot be read is an error, not a silent
// fallback.
func Load(path string) (string, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", contract.ErrPromptMissing, path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", contract.ErrPromptMissing, path)
	}
	return text, nil
}
