//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the sxview module embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "sxview"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Lazy S-expression tree viewer"
	// EnvPrefix prefixes environment variables recognized by the project.
	EnvPrefix = "SXVIEW_"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// Option is a functional option that transforms a configuration value of
// type T.
type Option[T any] func(T) T

// Make returns a zero T with all opts applied in order.
func Make[T any](opts ...Option[T]) T {
	var t T

	return Wrap(t, opts...)
}

// Wrap returns t with all opts applied in order.
func Wrap[T any](t T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			t = opt(t)
		}
	}

	return t
}
