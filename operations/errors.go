package operations

import "errors"

var (
	ErrNoInputFound            = errors.New("no input found")
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
)
