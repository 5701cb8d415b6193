package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AnthonyFclub/glor-crm/repositories"
)

var (
	// ErrNotFound es el mismo error del repositorio, para que errors.Is funcione en ambos lados
	ErrNotFound           = repositories.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("not signed in")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// ValidationError agrupa los errores de entrada por campo
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// fieldErrors junta errores por campo; nil si no hubo ninguno
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
