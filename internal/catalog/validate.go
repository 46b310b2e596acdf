package catalog

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

// BookPayload is the raw client payload checked by the validation pipeline.
type BookPayload struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"publishedDate"`
	ISBN          string `json:"ISBN"`
}

// FieldError describes a single failed validation check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var isbnPattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{3}$`)

// dateLayouts are the accepted publishedDate formats.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ValidateBook runs the ordered validation pipeline over the payload and
// returns every failing field in declaration order. Callers wanting
// first-error-wins semantics take the head of the slice.
func ValidateBook(p BookPayload) []FieldError {
	var errs []FieldError

	errs = append(errs, checkLength("title", p.Title, 3, 100)...)
	errs = append(errs, checkLength("author", p.Author, 3, 100)...)

	if p.PublishedDate == "" {
		errs = append(errs, FieldError{"publishedDate", `"publishedDate" is required`})
	} else if _, err := ParseDate(p.PublishedDate); err != nil {
		errs = append(errs, FieldError{"publishedDate", `"publishedDate" must be a valid date`})
	}

	if p.ISBN == "" {
		errs = append(errs, FieldError{"ISBN", `"ISBN" is required`})
	} else if !isbnPattern.MatchString(p.ISBN) {
		errs = append(errs, FieldError{"ISBN", `"ISBN" fails to match the required pattern`})
	}

	return errs
}

func checkLength(field, value string, min, max int) []FieldError {
	switch n := utf8.RuneCountInString(value); {
	case value == "":
		return []FieldError{{field, fmt.Sprintf("%q is required", field)}}
	case n < min:
		return []FieldError{{field, fmt.Sprintf("%q length must be at least %d characters long", field, min)}}
	case n > max:
		return []FieldError{{field, fmt.Sprintf("%q length must be less than or equal to %d characters long", field, max)}}
	}
	return nil
}

// ParseDate parses a publishedDate value in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
