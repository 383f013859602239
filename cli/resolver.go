package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sxview/log"
	"github.com/ardnew/sxview/sexp"
	"github.com/ardnew/sxview/tree"
)

// resolve returns a [kong.ConfigurationLoader] that reads config files
// written as S-expression documents.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config")
//
// The document is converted like any other input, so let and let-proof
// bindings may be used. The first root named name supplies the settings:
// each keyword child names a flag without its leading colon.
//   - A keyword followed by an atom sets the flag to that atom, or to the
//     value bound to that atom
//   - A keyword followed by a list sets a list-valued flag, whatever the
//     number of elements
//   - A keyword followed by another keyword, or by nothing, sets it to true
//
// Example config file:
//
//	(config
//	  :log-level debug
//	  :log-format text
//	  :log-pretty false
//	  :path (/usr/share/sxview ./lib))
//
// A file that cannot be parsed or converted is ignored. Command-line flags
// override config file values.
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		exprs, err := sexp.ParseReader(ctx, r)
		if err != nil {
			log.DebugContext(ctx, "config ignored", slog.Any("error", err))

			return config{}, nil
		}

		conv := tree.NewConverter(nil)

		roots, err := conv.ConvertAll(ctx, exprs)
		if err != nil {
			log.DebugContext(ctx, "config ignored", slog.Any("error", err))

			return config{}, nil
		}

		for _, root := range roots {
			if root.Named && root.Name == name {
				return settings(root, conv.Env()), nil
			}
		}

		return config{}, nil
	}
}

// config implements [kong.Resolver] for S-expression configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// settings collects the keyword children of root. The shape of each value
// follows the source: a list value is always a list, even with one element
// or none.
func settings(root *tree.Node, env *tree.Env) config {
	result := make(config)

	for _, child := range root.Children {
		if !child.IsKeyword() {
			continue
		}

		key := strings.TrimPrefix(child.Name, ":")

		switch {
		case child.Spliced:
			list := make([]any, len(child.Children))
			for i, c := range child.Children {
				list[i] = unwrap(c).Label()
			}

			result[key] = list

		case len(child.Children) == 1:
			value := child.Children[0]
			if bound, ok := env.Lookup(value.Name); ok && value.IsLeaf() {
				value = bound
			}

			result[key] = unwrap(value).Label()

		default:
			result[key] = "true"
		}
	}

	return result
}

// unwrap follows binding wrappers down to the value they hold.
func unwrap(n *tree.Node) *tree.Node {
	for n.Shared && len(n.Children) == 1 {
		n = n.Children[0]
	}

	return n
}
