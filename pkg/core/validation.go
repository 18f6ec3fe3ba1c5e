package core

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// technicalIDPattern restricts category ids to ASCII letters, digits and underscore.
var technicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var statusRule = validation.In(StatusActive, StatusInactive).Error("status must be active or inactive")

// ValidateTechnicalID checks a category id against the technical-name rules.
func ValidateTechnicalID(id string) error {
	err := validation.Validate(id,
		validation.Required.Error("technical id is required"),
		validation.Match(technicalIDPattern).Error("technical id may only contain English letters, digits and underscore"),
	)
	if err != nil {
		return ValidationError("validate id", "%v", err)
	}
	return nil
}

// CategoryInput carries an add or edit request for a category.
type CategoryInput struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Status      Status `json:"status"`
	IsDefault   bool   `json:"is_default"`
}

func (in CategoryInput) normalize() CategoryInput {
	in.ID = strings.TrimSpace(in.ID)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Status == "" {
		in.Status = StatusActive
	}
	return in
}

// Validate applies the field rules. It does not look at the snapshot.
func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ID,
			validation.Required.Error("technical id is required"),
			validation.Match(technicalIDPattern).Error("technical id may only contain English letters, digits and underscore"),
		),
		validation.Field(&in.DisplayName, validation.Required.Error("display name is required")),
		validation.Field(&in.Status, statusRule),
	)
}

// AuthorInput carries an add or edit request for an author.
type AuthorInput struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	IsDefault bool   `json:"is_default"`
}

func (in AuthorInput) normalize() AuthorInput {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = StatusActive
	}
	return in
}

// Validate applies the field rules.
func (in AuthorInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("author name is required")),
		validation.Field(&in.Status, statusRule),
	)
}

// asValidationError converts ozzo field errors into a ValidationError.
func asValidationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return &Error{Kind: KindValidation, Op: op, Message: fieldErrs.Error()}
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindValidation, Op: op, Message: err.Error()}
}
