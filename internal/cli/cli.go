// Package cli implements the sidedock command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidedock/pkg/buildinfo"
	"github.com/matzehuels/sidedock/pkg/config"
	"github.com/matzehuels/sidedock/pkg/station"
	"github.com/matzehuels/sidedock/pkg/store"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sidedock"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sidedock lays out side-docked panel stations",
		Long:         `Sidedock computes column-constrained layouts for panels docked to a window edge, validates divider drags against minimum sizes, and keeps user-chosen sizes across edits.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dragCommand())
	root.AddCommand(c.dropCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Workspace - a loaded station plus its layout store
// =============================================================================

// storeFlags selects the layout store shared by the station commands.
type storeFlags struct {
	url     string
	noStore bool
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "store", "", "layout store: file path, redis://, mongodb:// (default: XDG data dir)")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "do not load or save layout sizes")
}

// workspace is a station built from a description file, with the sizes
// saved in its store applied.
type workspace struct {
	path   string
	cfg    *config.Station
	st     *station.Station
	labels map[tree.ContentID]string
	store  store.Store
}

// openWorkspace loads the description at path, builds the station, restores
// saved sizes and runs a first layout pass.
func (c *CLI) openWorkspace(ctx context.Context, path string, flags storeFlags) (*workspace, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	s, err := c.openStore(ctx, flags)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	opts := cfg.Options()
	opts.Logger = logger
	t, labels := cfg.Tree()
	ws := &workspace{
		path:   path,
		cfg:    cfg,
		st:     station.New(t, opts),
		labels: labels,
		store:  s,
	}

	doc, err := s.Load(ctx, cfg.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Debug("no saved layout", "station", cfg.ID)
	case err != nil:
		s.Close()
		return nil, fmt.Errorf("load layout %s: %w", cfg.ID, err)
	default:
		if err := doc.Apply(ws.st); err != nil {
			logger.Warn("ignoring saved layout", "station", cfg.ID, "err", err)
		} else {
			logger.Debug("restored layout", "station", cfg.ID, "columns", len(doc.Columns))
		}
	}

	ws.st.UpdateBounds(cfg.Area.Rect())
	return ws, nil
}

func (c *CLI) openStore(ctx context.Context, flags storeFlags) (store.Store, error) {
	if flags.noStore {
		return store.NewNullStore(), nil
	}
	if flags.url == "" {
		return store.NewFileStore("")
	}
	open := func(ctx context.Context) (store.Store, error) { return store.Open(ctx, flags.url) }
	var s store.Store
	var err error
	if label, remote := storeLabel(flags.url); remote {
		s, err = spinWhile(ctx, os.Stderr, "Connecting to "+label, "Layout store unreachable", open)
	} else {
		s, err = open(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// storeLabel returns url with any password masked and reports whether it
// names a remote store.
func storeLabel(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		return raw, false
	}
	return u.Redacted(), true
}

// save persists the station's sizes.
func (w *workspace) save(ctx context.Context) error {
	if err := w.store.Save(ctx, store.ToDocument(w.st)); err != nil {
		return fmt.Errorf("save layout %s: %w", w.cfg.ID, err)
	}
	return nil
}

// writeDescription writes the station's current tree back as TOML.
func (w *workspace) writeDescription(path string) error {
	if path == "" {
		path = w.path
	}
	return config.FromStation(w.st, w.cfg.Area.Rect(), w.labels).Save(path)
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// label returns the display name of content.
func (w *workspace) label(c tree.ContentID) string {
	if l, ok := w.labels[c]; ok && l != "" {
		return l
	}
	return "#" + strconv.FormatInt(int64(c), 10)
}

// =============================================================================
// Flag Parsing Helpers
// =============================================================================

// parsePoint parses "x,y".
func parsePoint(s string) (tree.Point, error) {
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return tree.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	px, err := strconv.Atoi(strings.TrimSpace(x))
	if err != nil {
		return tree.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	py, err := strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return tree.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return tree.Point{X: px, Y: py}, nil
}

// parseSize parses "WxH".
func parseSize(s string) (tree.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return tree.Size{}, fmt.Errorf("size %q: want WIDTHxHEIGHT", s)
	}
	pw, err := strconv.Atoi(w)
	if err != nil {
		return tree.Size{}, fmt.Errorf("size %q: %w", s, err)
	}
	ph, err := strconv.Atoi(h)
	if err != nil {
		return tree.Size{}, fmt.Errorf("size %q: %w", s, err)
	}
	if pw < 0 || ph < 0 {
		return tree.Size{}, fmt.Errorf("size %q: negative", s)
	}
	return tree.Size{Width: pw, Height: ph}, nil
}
