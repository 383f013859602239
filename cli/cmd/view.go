package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sxview/cli/cmd/view"
	"github.com/ardnew/sxview/outline"
	"github.com/ardnew/sxview/source"
)

// View opens the interactive viewer on the converted documents.
type View struct {
	Depth int `default:"0" help:"Expand rows shallower than this depth on start" short:"d"`

	Sources []string `arg:"" default:"-" help:"Source files, URLs, or '-' for stdin." name:"source"`
}

// Run executes the view command.
func (v *View) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := sessionFrom(ctx)

	docs, err := s.convert(ctx, v.Sources)
	if err != nil {
		return err
	}

	o := outline.New(roots(docs), outline.WithLogger(s.Logger))
	if v.Depth > 0 {
		o.ExpandTo(v.Depth)
	}

	opts := []view.Option{view.WithLogger(s.Logger)}

	if dir, ok := kongVar(ctx, CacheIdentifier); ok {
		h := view.NewHistory(filepath.Join(dir, view.HistoryFile))
		if err := h.Load(); err != nil {
			s.Logger.WarnContext(ctx, "search history not loaded",
				slog.Any("error", view.ErrHistory.Wrap(err)))
		}

		opts = append(opts, view.WithHistory(h))
	}

	// Keystrokes must come from the terminal when the document is piped in.
	if len(v.Sources) == 0 || slices.Contains(v.Sources, source.Stdin) {
		opts = append(opts, view.WithProgramOptions(tea.WithInputTTY()))
	}

	if err := view.Run(ctx, o, opts...); err != nil {
		return ErrView.Wrap(err)
	}

	return nil
}
