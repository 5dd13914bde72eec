package categoryform

import (
	"regexp"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
)

// Field names a form input
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
)

// Validation messages
const (
	MsgNameRequired        = "Category name is required"
	MsgNameSpecialChars    = "Category name must not contain special characters"
	MsgDescriptionRequired = "Description is required"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

type validator struct {
	field Field
	check func(c *model.Category) string
}

// validators run in order; the first failure wins.
var validators = []validator{
	{FieldName, func(c *model.Category) string {
		if c.Name == "" {
			return MsgNameRequired
		}
		return ""
	}},
	{FieldName, func(c *model.Category) string {
		if !namePattern.MatchString(c.Name) {
			return MsgNameSpecialChars
		}
		return ""
	}},
	{FieldDescription, func(c *model.Category) string {
		if c.Description == "" {
			return MsgDescriptionRequired
		}
		return ""
	}},
}

// Validate checks a category the same way the form does and returns the
// first failure, or nil.
func Validate(c *model.Category) *errors.ValidationError {
	for _, v := range validators {
		if msg := v.check(c); msg != "" {
			return errors.InvalidInput(string(v.field), msg)
		}
	}
	return nil
}
