package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() BookPayload {
	return BookPayload{
		Title:         "The Go Programming Language",
		Author:        "Alan Donovan",
		PublishedDate: "2015-10-26",
		ISBN:          "978-013-419",
	}
}

func TestValidateBook_ValidPayload(t *testing.T) {
	errs := ValidateBook(validPayload())

	assert.Empty(t, errs)
}

func TestValidateBook_MissingFields(t *testing.T) {
	// All fields empty: one error per field, in declaration order.
	errs := ValidateBook(BookPayload{})

	require.Len(t, errs, 4)
	assert.Equal(t, `"title" is required`, errs[0].Message)
	assert.Equal(t, `"author" is required`, errs[1].Message)
	assert.Equal(t, `"publishedDate" is required`, errs[2].Message)
	assert.Equal(t, `"ISBN" is required`, errs[3].Message)
}

func TestValidateBook_TitleTooShort(t *testing.T) {
	p := validPayload()
	p.Title = "Go"

	errs := ValidateBook(p)

	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, `"title" length must be at least 3 characters long`, errs[0].Message)
}

func TestValidateBook_TitleTooLong(t *testing.T) {
	p := validPayload()
	p.Title = strings.Repeat("a", 101)

	errs := ValidateBook(p)

	require.Len(t, errs, 1)
	assert.Equal(t, `"title" length must be less than or equal to 100 characters long`, errs[0].Message)
}

func TestValidateBook_BadDate(t *testing.T) {
	p := validPayload()
	p.PublishedDate = "not-a-date"

	errs := ValidateBook(p)

	require.Len(t, errs, 1)
	assert.Equal(t, "publishedDate", errs[0].Field)
	assert.Equal(t, `"publishedDate" must be a valid date`, errs[0].Message)
}

func TestValidateBook_BadISBN(t *testing.T) {
	p := validPayload()
	p.ISBN = "9780134190440"

	errs := ValidateBook(p)

	require.Len(t, errs, 1)
	assert.Equal(t, "ISBN", errs[0].Field)
	assert.Equal(t, `"ISBN" fails to match the required pattern`, errs[0].Message)
}

func TestValidateBook_FirstErrorIsTitle(t *testing.T) {
	// Clients render only the first failure, so title must come first.
	p := validPayload()
	p.Title = ""
	p.ISBN = "bad"

	errs := ValidateBook(p)

	require.NotEmpty(t, errs)
	assert.Equal(t, "title", errs[0].Field)
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"date only", "2015-10-26", time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2015-10-26T12:30:00Z", time.Date(2015, 10, 26, 12, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("26/10/2015")

	assert.Error(t, err)
}
