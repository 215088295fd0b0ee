package studio

import "errors"

var (
	// ErrPromptRequired is returned when a submission has no prompt.
	ErrPromptRequired = errors.New("prompt cannot be empty")

	// ErrSourceImageRequired is returned when the edit model is chosen
	// without an image to edit.
	ErrSourceImageRequired = errors.New("an image to edit is required")

	// ErrInvalidModel is returned for a model outside the known set.
	ErrInvalidModel = errors.New("unknown model")

	// ErrInvalidAspectRatio is returned for an unsupported aspect ratio.
	ErrInvalidAspectRatio = errors.New("unsupported aspect ratio")

	// ErrInvalidCount is returned when the batch size is out of range.
	ErrInvalidCount = errors.New("number of results is out of range")
)
