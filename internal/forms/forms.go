package forms

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// CommentMaxLength bounds the comment text, in characters.
const CommentMaxLength = 1000

var sanitizer = bluemonday.UGCPolicy()

// Errors maps field names to validation messages. An empty map means
// the form is valid and the write may proceed.
type Errors map[string]string

// HasErrors reports whether any field failed validation
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// PostForm carries post create/edit input from a page request.
type PostForm struct {
	Text  string `form:"text"`
	Group string `form:"group"`
}

// Validate checks the form and returns field-level errors. Text is
// sanitized in place before length checks so an all-markup submission
// does not pass as non-empty.
func (f *PostForm) Validate() Errors {
	errs := Errors{}

	f.Text = strings.TrimSpace(sanitizer.Sanitize(f.Text))
	if f.Text == "" {
		errs["text"] = "this field is required"
	}

	if f.Group != "" {
		if _, err := strconv.ParseInt(f.Group, 10, 64); err != nil {
			errs["group"] = "select a valid group"
		}
	}

	return errs
}

// GroupID returns the selected group id, or 0 when no group was chosen.
// Call after Validate.
func (f *PostForm) GroupID() int64 {
	if f.Group == "" {
		return 0
	}
	id, _ := strconv.ParseInt(f.Group, 10, 64)
	return id
}

// CommentForm carries comment input from a page request.
type CommentForm struct {
	Text string `form:"text"`
}

// Validate checks the form and returns field-level errors
func (f *CommentForm) Validate() Errors {
	errs := Errors{}

	f.Text = strings.TrimSpace(sanitizer.Sanitize(f.Text))
	if f.Text == "" {
		errs["text"] = "this field is required"
	} else if utf8.RuneCountInString(f.Text) > CommentMaxLength {
		errs["text"] = "comment is too long"
	}

	return errs
}
