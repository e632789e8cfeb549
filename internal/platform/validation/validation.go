// Package validation registers the extra binding tags used by request DTOs.
package validation

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once   sync.Once
	regErr error
)

// Register adds `notblank` to gin's validator. Safe to call more than once.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			regErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		regErr = v.RegisterValidation("notblank", validators.NotBlank)
	})
	return regErr
}
