package http

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report json names so messages can be
// looked up by the key the client sent.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the body into req and converts rule failures into a
// ValidationError using messages. An empty body is validated as {}.
func bindJSON(c *gin.Context, req any, messages map[string]string) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			err = binding.Validator.ValidateStruct(req)
			if err == nil {
				return nil
			}
		}
		if verr, ok := apperror.FromValidator(err, messages); ok {
			return verr
		}
		return apperror.NewInvalidInput("malformed JSON body", err)
	}
	return nil
}
