package catalog

import "errors"

// Service errors mapped to HTTP responses by the handler.
var (
	ErrBookNotFound        = errors.New("Book not found")
	ErrInvalidID           = errors.New("id not valid")
	ErrNoFile              = errors.New("No file uploaded")
	ErrUnsupportedFileType = errors.New("Only image files are allowed!")
)
