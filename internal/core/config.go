// internal/core/config.go
package core

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ConnectionConfig is the client-visible selection triple submitted with a
// connect attempt. The connection method is forced to connection_string for
// MongoDB before this struct is built.
type ConnectionConfig struct {
	DBType DBType `validate:"required,oneof=supabase postgresql mysql mongodb"`
	Method Method `validate:"required,oneof=connection_string individual"`
	Mode   Mode   `validate:"required,oneof=read-only read-write"`
}

// Validate checks the selection values against the supported sets.
func (c ConnectionConfig) Validate() error {
	return validate.Struct(c)
}
