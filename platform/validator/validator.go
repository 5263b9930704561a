// Package validator wraps go-playground/validator behind a small struct so
// handlers can take it as a dependency instead of a package singleton.
package validator

import "github.com/go-playground/validator/v10"

// Validator validates request DTOs by their struct tags.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the default tag set.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a struct against its validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a custom validation function under the given tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
