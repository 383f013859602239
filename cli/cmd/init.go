package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/sxview/profile"
	"github.com/ardnew/sxview/sexp"
)

// ConfigRoot is the name of the list holding settings in the configuration
// file.
const ConfigRoot = "config"

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := kongVar(ctx, ConfigIdentifier)
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	err = os.WriteFile(confPath, []byte(formatConfig(i.buildConfig(ctx))), 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	sessionFrom(ctx).Logger.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig constructs the config list from current flag values:
// the atom [ConfigRoot] followed by a keyword and a value per flag.
func (i *Init) buildConfig(ctx context.Context) *sexp.Expr {
	config := sexp.NewList(sexp.NewAtom(ConfigRoot))

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return config
	}

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagExpr(ktx.FlagValue(flag))
		if val != nil {
			config.List = append(config.List, sexp.NewAtom(":"+flag.Name), val)
		}
	}

	return config
}

// flagExpr returns the expression spelling a flag value, or nil if the value
// is unset or empty.
func flagExpr(val any) *sexp.Expr {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return sexp.NewAtom(strconv.FormatBool(v))

	case string:
		if v == "" {
			return nil
		}

		return sexp.NewAtom(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		elems := make([]*sexp.Expr, len(v))
		for i, s := range v {
			elems[i] = sexp.NewAtom(s)
		}

		return sexp.NewList(elems...)

	default:
		s := fmt.Sprint(v)
		if s == "" {
			return nil
		}

		return sexp.NewAtom(s)
	}
}

// formatConfig writes each keyword and its value on their own line.
func formatConfig(config *sexp.Expr) string {
	var b strings.Builder

	b.WriteByte('(')
	b.WriteString(sexp.Render(config.List[0]))

	pad := strings.Repeat(" ", defaultConfigIndent)

	for j := 1; j+1 < len(config.List); j += 2 {
		b.WriteString("\n" + pad)
		b.WriteString(sexp.Render(config.List[j]))
		b.WriteByte(' ')
		b.WriteString(sexp.Render(config.List[j+1]))
	}

	b.WriteString(")\n")

	return b.String()
}
