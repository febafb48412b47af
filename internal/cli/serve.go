package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/distortviz/internal/server"
	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/metrics"
)

// serveCommand runs the web front end.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		url       string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the side-by-side viewer",
		Long: `Serve the browser viewer and its JSON API.

Each browser tab gets its own view. Layout frames stream to the page over
Server-Sent Events; distortion requests go to --distortion-url.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			if url != "" {
				c.Config.Distortion.URL = url
			}
			return c.runServe(cmd.Context(), !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().StringVar(&url, "distortion-url", "", "distortion service URL")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, withMetrics bool) error {
	respCache, err := c.Config.OpenCache(ctx)
	if err != nil {
		return err
	}
	defer respCache.Close()

	store, err := c.Config.OpenSnapshots(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := server.Options{
		Snapshots: store,
		Layout:    c.Config.Layout,
		Params:    c.Config.DistortionParams(),
		Logger:    c.Logger,
	}

	var client distortion.Distorter
	if c.Config.Distortion.URL != "" {
		cl, err := c.Config.NewClient(respCache, c.Logger)
		if err != nil {
			return err
		}
		client = cl
	} else {
		printWarning(c.out, "No distortion service configured; runs will fail")
	}
	opts.Client = client

	if withMetrics {
		reg := metrics.DefaultRegistry()
		reg.Install()
		opts.Metrics = reg
	}

	printInfo(c.out, "Serving on http://%s", c.Config.Server.Addr)
	printDetail(c.out, "distortion service: %s", c.Config.Distortion.URL)
	return server.New(opts).ListenAndServe(ctx, c.Config.Server.Addr)
}
