package cli

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/distortviz/internal/config"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/view"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "distortviz"

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
	// Config is loaded before any command runs; flags override it.
	Config *config.Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// loadConfig reads --config, or the default file when the flag is empty.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath)
	return nil
}

// =============================================================================
// Input Files
// =============================================================================

// readGraphs reads both edge-list files concurrently.
func readGraphs(ctx context.Context, primary, secondary string) ([2][]byte, error) {
	var data [2][]byte
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range [2]string{primary, secondary} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return errs.Wrap(errs.ErrCodeFileRead, err, "read %s", path)
			}
			data[i] = b
			return nil
		})
	}
	return data, g.Wait()
}

// loadController reads both files and loads them, primary first so its
// positions are recorded before the secondary layout runs.
func (c *CLI) loadController(ctx context.Context, ctrl *view.Controller, primary, secondary string) error {
	data, err := readGraphs(ctx, primary, secondary)
	if err != nil {
		return err
	}
	for _, sl := range graph.Slots {
		if err := ctrl.LoadGraph(ctx, sl, bytes.NewReader(data[sl])); err != nil {
			return err
		}
	}
	return nil
}
