package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gameshow-quiz-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Validator checks gameshow inputs and answer submissions before any other
// component trusts them. Failures are reported as *domain.ValidationError.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("has_correct", hasCorrectOption)
	return &Validator{validate: v}
}

// Input validates a create/update body including the nested definition.
func (v *Validator) Input(in domain.GameshowInput) error {
	return v.check(in)
}

// Submission validates an answer submission.
func (v *Validator) Submission(sub domain.AnswerSubmission) error {
	return v.check(sub)
}

func (v *Validator) check(value any) error {
	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "", Rule: "invalid", Message: err.Error()}}}
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func hasCorrectOption(fl validator.FieldLevel) bool {
	options, ok := fl.Field().Interface().([]domain.Option)
	if !ok {
		return false
	}
	for _, opt := range options {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// fieldPath drops the root struct name: "GameshowInput.gameData.questions[0]"
// becomes "gameData.questions[0]".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "unique":
		return "must not contain duplicate ids"
	case "has_correct":
		return "must contain at least one correct option"
	}
	return "is invalid"
}
