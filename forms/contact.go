package forms

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	ContactNameMaxLength    = 120
	ContactSubjectMaxLength = 200
)

// ContactInput is a message left through the contact page
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ValidateContact trims the input and checks it. Subject is optional.
func ValidateContact(in ContactInput) (ContactInput, Errors) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error(MsgRequired),
			validation.RuneLength(0, ContactNameMaxLength).Error(maxLength(ContactNameMaxLength)),
		),
		validation.Field(&in.Email,
			validation.Required.Error(MsgRequired),
			is.EmailFormat.Error(MsgInvalidEmail),
		),
		validation.Field(&in.Subject,
			validation.RuneLength(0, ContactSubjectMaxLength).Error(maxLength(ContactSubjectMaxLength)),
		),
		validation.Field(&in.Message,
			validation.Required.Error(MsgRequired),
		),
	)

	fieldErrs, _ := split(err)
	if fieldErrs.Any() {
		return in, fieldErrs
	}
	return in, nil
}

// LoginInput is a username/password pair from the login page or token endpoint
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func ValidateLogin(in LoginInput) (LoginInput, Errors) {
	in.Username = strings.TrimSpace(in.Username)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required.Error(MsgRequired)),
		validation.Field(&in.Password, validation.Required.Error(MsgRequired)),
	)

	fieldErrs, _ := split(err)
	if fieldErrs.Any() {
		return in, fieldErrs
	}
	return in, nil
}
