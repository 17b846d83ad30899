package validation

import (
	"errors"
	"strings"
)

// ErrInvalid матчится через errors.Is для любой ошибки валидации
var ErrInvalid = errors.New("validation failed")

// Error - отказ схемы формы по одному полю. До сети такие ошибки не доходят.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is implements errors.Is
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Errors - все ошибки формы сразу, в порядке полей
type Errors []*Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap дает errors.Is/As доступ к отдельным полям
func (e Errors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, err := range e {
		errs = append(errs, err)
	}
	return errs
}

// Field возвращает ошибку поля или nil
func (e Errors) Field(name string) *Error {
	for _, err := range e {
		if err.Field == name {
			return err
		}
	}
	return nil
}

type collector struct {
	errs Errors
}

func (c *collector) add(field, message string) {
	c.errs = append(c.errs, &Error{Field: field, Message: message})
}

func (c *collector) check(ok bool, field, message string) {
	if !ok {
		c.add(field, message)
	}
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}
