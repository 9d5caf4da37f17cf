// Package cli implements the easel command-line interface.
//
// This package provides commands for managing boards of AI-expanded image
// variants, calling the generation service, maintaining the image cache,
// storing service credentials, serving the HTTP API, and editing boards
// interactively. The CLI is built using cobra; output uses lipgloss styling
// and logging the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - board: Create, list, show, render, and export boards
//   - expand: Generate an expanded image variant and place it on a board
//   - cache: Manage the image content cache
//   - auth: Manage generation-service credentials
//   - serve: Run the HTTP API server
//   - tui: Edit a board interactively in the terminal
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/easelkit/easel/pkg/board"
	"github.com/easelkit/easel/pkg/buildinfo"
	"github.com/easelkit/easel/pkg/canvas"
	"github.com/easelkit/easel/pkg/config"
	"github.com/easelkit/easel/pkg/imagecache"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "easel"

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
	Config *config.Config
}

// New creates a new CLI instance with a default logger and loaded config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Load(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Easel arranges AI-expanded image variants on boards",
		Long:         `Easel is a toolkit for generating expanded variants of images and arranging them on free-form boards, with connector geometry back to each variant's source and a persistent content cache for remote images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Make the CLI logger reachable from command contexts.
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factories
// =============================================================================

// openBoardStore opens the configured board store backend.
func (c *CLI) openBoardStore(ctx context.Context) (board.Store, error) {
	switch c.Config.Storage.Backend {
	case "mongo":
		return board.NewMongoStore(ctx, c.Config.Mongo)
	case "", "file":
		dir := c.Config.Storage.DataDir
		if dir == "" {
			var err error
			dir, err = dataDir()
			if err != nil {
				return nil, fmt.Errorf("get data dir: %w", err)
			}
		}
		return board.NewFileStore(filepath.Join(dir, "boards"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Config.Storage.Backend)
	}
}

// openImageCache opens the configured image cache backend.
func (c *CLI) openImageCache(ctx context.Context) (*imagecache.Cache, error) {
	var store imagecache.Store
	switch c.Config.Cache.Backend {
	case "none":
		store = imagecache.NewNullStore()
	case "redis":
		s, err := imagecache.NewRedisStore(ctx, c.Config.Redis)
		if err != nil {
			return nil, err
		}
		store = s
	case "", "file":
		dir := c.Config.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
		}
		s, err := imagecache.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Config.Cache.Backend)
	}
	return imagecache.New(store, nil, c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/easel/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/easel/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseAnchor parses an "x,y,w,h" flag value into an anchor rectangle.
func parseAnchor(s string) (canvas.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return canvas.Rect{}, fmt.Errorf("anchor must be x,y,w,h, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return canvas.Rect{}, fmt.Errorf("anchor component %q: %w", p, err)
		}
		vals[i] = v
	}
	r := canvas.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	if r.IsZero() {
		return canvas.Rect{}, fmt.Errorf("anchor %q has no area", s)
	}
	return r, nil
}

// resolveBoard loads a board by ID, or by unambiguous name prefix.
func resolveBoard(ctx context.Context, store board.Store, ref string) (board.Board, error) {
	if b, err := store.Load(ctx, ref); err == nil {
		return b, nil
	}

	list, err := store.List(ctx)
	if err != nil {
		return board.Board{}, err
	}
	var matches []board.Summary
	for _, s := range list {
		if s.Name == ref || strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		return store.Load(ctx, matches[0].ID)
	case 0:
		return board.Board{}, fmt.Errorf("no board matching %q", ref)
	default:
		return board.Board{}, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
	}
}
