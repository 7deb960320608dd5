package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule, shaped the way clients already parse it.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ValidationError is a list of field errors rendered as {"errors": [...]}.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Msg
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func (e *ValidationError) ToJSON() gin.H {
	return gin.H{"errors": e.Fields}
}

// NewValidation builds a single-message validation error.
func NewValidation(msg, param string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Msg: msg, Param: param, Location: "body"}}}
}

// FromValidator converts validator rule failures. messages is keyed by
// "<field>.<tag>" first and "<field>" second, where field is the name the
// validator reports (the json name once a tag name func is registered).
func FromValidator(err error, messages map[string]string) (*ValidationError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[fe.Field()]
		}
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out.Fields = append(out.Fields, FieldError{Msg: msg, Param: fe.Field(), Location: "body"})
	}
	return out, true
}
