package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrPromptMissing = errors.New("required prompt is missing")
	ErrValidation    = errors.New("validation failed")
)
