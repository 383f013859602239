package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/mung"
	"github.com/klauspost/readahead"

	"github.com/ardnew/sxview/log"
	"github.com/ardnew/sxview/pkg"
)

// ErrAcquire reports that the text of a location could not be obtained.
var ErrAcquire = pkg.NewError("could not obtain text")

const (
	// DefaultTimeout bounds each HTTP request made by a [Loader] created
	// without [WithClient].
	DefaultTimeout = 30 * time.Second

	// PathEnv names the environment variable holding extra search
	// directories, separated by [os.PathListSeparator].
	PathEnv = pkg.EnvPrefix + "PATH"

	// Stdin is the location that selects standard input.
	Stdin = "-"
)

// Text is the content of one location.
type Text struct {
	Origin string // resolved file path, URL, or [Stdin]
	Body   string
}

// Loader reads document text.
type Loader struct {
	client *http.Client
	dirs   []string
	stdin  io.Reader
	logger log.Logger
}

// Option configures a [Loader].
type Option func(*Loader)

// WithClient sets the HTTP client used for URLs.
func WithClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithSearchPath adds directories searched for relative file locations
// that do not exist as given.
func WithSearchPath(dirs ...string) Option {
	return func(l *Loader) {
		l.dirs = append(l.dirs, dirs...)
	}
}

// WithStdin sets the reader used for the [Stdin] location.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader returns a loader reading standard input from [os.Stdin] and
// fetching URLs with a client limited to [DefaultTimeout].
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: DefaultTimeout},
		stdin:  os.Stdin,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// SearchPath returns the directories searched for relative file locations,
// configured directories first, without duplicates.
func (l *Loader) SearchPath() []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(unique(l.dirs)...),
	).String()

	return unique(filepath.SplitList(joined))
}

// unique returns the non-empty elements of list in order of first
// appearance.
func unique(list []string) []string {
	var out []string

	for _, s := range list {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	return out
}

// Load returns the text at location.
func (l *Loader) Load(ctx context.Context, location string) (*Text, error) {
	switch {
	case location == Stdin:
		return l.loadStdin(ctx)

	case isURL(location):
		return l.fetch(ctx, location)

	default:
		return l.loadFile(ctx, location)
	}
}

// LoadAll loads each location in order. A location naming the same file,
// URL, or standard input as an earlier one is skipped.
func (l *Loader) LoadAll(ctx context.Context, locations []string) ([]*Text, error) {
	var (
		texts []*Text
		seen  = make(map[string]bool)
		files []os.FileInfo
	)

	for _, location := range locations {
		if seen[location] {
			continue
		}

		seen[location] = true

		text, err := l.Load(ctx, location)
		if err != nil {
			return nil, err
		}

		if location != Stdin && !isURL(location) {
			info, err := os.Stat(text.Origin)
			if err == nil {
				if slices.ContainsFunc(files, func(fi os.FileInfo) bool {
					return os.SameFile(fi, info)
				}) {
					l.logger.DebugContext(ctx, "skip duplicate file",
						slog.String("source", location))

					continue
				}

				files = append(files, info)
			}
		}

		texts = append(texts, text)
	}

	return texts, nil
}

func (l *Loader) loadStdin(ctx context.Context) (*Text, error) {
	if l.stdin == nil {
		return nil, acquireError(Stdin, errors.New("standard input unavailable"))
	}

	ra := readahead.NewReader(l.stdin)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, acquireError(Stdin, err)
	}

	l.logger.TraceContext(ctx, "read stdin", slog.Int("bytes", len(data)))

	return &Text{Origin: Stdin, Body: string(data)}, nil
}

func (l *Loader) loadFile(ctx context.Context, location string) (*Text, error) {
	path, err := l.resolve(location)
	if err != nil {
		return nil, acquireError(location, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, acquireError(location, err)
	}

	l.logger.TraceContext(ctx, "read file",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	return &Text{Origin: path, Body: string(data)}, nil
}

// resolve returns the path of the first existing candidate for location.
func (l *Loader) resolve(location string) (string, error) {
	_, err := os.Stat(location)
	if err == nil || filepath.IsAbs(location) || !errors.Is(err, os.ErrNotExist) {
		return location, nil
	}

	for _, dir := range l.SearchPath() {
		path := filepath.Join(dir, location)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", err
}

func (l *Loader) fetch(ctx context.Context, url string) (*Text, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, acquireError(url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, acquireError(url, err).
			With(slog.String("hint", networkHint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, acquireError(url, errors.New(resp.Status)).With(
			slog.Int("status", resp.StatusCode),
			slog.String("hint", statusHint(resp.StatusCode)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, acquireError(url, err).
			With(slog.String("hint", networkHint))
	}

	l.logger.DebugContext(ctx, "fetch",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)))

	return &Text{Origin: url, Body: string(data)}, nil
}

const networkHint = "check the network connection and the " +
	"HTTP_PROXY, HTTPS_PROXY and NO_PROXY environment variables"

func statusHint(status int) string {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return "check that the URL names an existing document"

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "the server refused access; the document may require " +
			"credentials or a proxy permitted to fetch it"

	case status >= 500:
		return "the server failed to respond; try again later"

	default:
		return fmt.Sprintf("the server answered with status %d", status)
	}
}

func acquireError(location string, err error) *pkg.Error {
	return ErrAcquire.Wrap(err).With(
		slog.String("source", location),
		slog.String("cause", err.Error()))
}

func isURL(location string) bool {
	lower := strings.ToLower(location)

	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}
