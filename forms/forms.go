// Package forms validates user input for every write path. Each Validate
// function returns either cleaned values or a map of field name to message.
package forms

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidURL    = "Enter a valid URL."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgBadLogin      = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

var httpScheme = regexp.MustCompile(`^(?i)(https?|ftps?)://`)

// Errors maps a field name to its message. The empty key holds form-level errors.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

func maxLength(n int) string {
	return fmt.Sprintf("Ensure this value has at most %d characters.", n)
}

func invalidChoice(ref string) string {
	return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", ref)
}

func alreadyExists(model, field string) string {
	return fmt.Sprintf("%s with this %s already exists.", model, field)
}

// split separates field errors from a lookup failure raised inside a rule
func split(err error) (Errors, error) {
	if err == nil {
		return nil, nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return nil, internal.InternalError()
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	out := make(Errors, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		out[field] = fieldErr.Error()
	}
	return out, nil
}
