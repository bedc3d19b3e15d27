package parsers

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported scorecard format")
	// ErrUnreadable is returned when the file cannot be decoded at all.
	ErrUnreadable = errors.New("unreadable scorecard")
)
