package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/distortviz/pkg/cache"
	"github.com/matzehuels/distortviz/pkg/snapshot"
	"github.com/matzehuels/distortviz/pkg/view"
)

type runOptions struct {
	k           int
	measure     string
	region      int
	url         string
	noCache     bool
	interactive bool
	save        string
}

// runCommand sends one distortion request for two files.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <graph1> <graph2>",
		Short: "Run the distortion service on two edge-list files",
		Long: `Load two edge-list files, send them to the distortion service and print
the colour table for graph1's nodes.

k is clamped to the smaller node count of the two graphs. With --interactive
a region picker re-runs the service whenever the region changes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("k") {
				opts.k = c.Config.Params.K
			}
			if !cmd.Flags().Changed("measure") {
				opts.measure = c.Config.Params.Measure
			}
			if opts.url != "" {
				c.Config.Distortion.URL = opts.url
			}
			return c.runDistortion(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVar(&opts.k, "k", 1, "number of nodes the measure considers")
	cmd.Flags().StringVar(&opts.measure, "measure", "1", "distortion measure")
	cmd.Flags().IntVar(&opts.region, "region", 1, "region to request (1-10)")
	cmd.Flags().StringVar(&opts.url, "url", "", "distortion service URL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not use the response cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick regions interactively")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the resulting view as a snapshot with this name")

	return cmd
}

func (c *CLI) runDistortion(ctx context.Context, primary, secondary string, opts runOptions) error {
	var respCache cache.Cache = cache.NewNullCache()
	if !opts.noCache {
		rc, err := c.Config.OpenCache(ctx)
		if err != nil {
			return err
		}
		respCache = rc
	}
	defer respCache.Close()

	client, err := c.Config.NewClient(respCache, c.Logger)
	if err != nil {
		return err
	}

	ctrl := view.NewController(client, view.WithLayoutConfig(c.Config.Layout), view.WithLogger(c.Logger))
	if err := c.loadController(ctx, ctrl, primary, secondary); err != nil {
		return err
	}
	names := nodeNames(ctrl.Snapshot())

	p, err := ctrl.SetParameters(opts.k, opts.measure)
	if err != nil {
		return err
	}
	if p.K != opts.k {
		printWarning(c.out, "k clamped to %d", p.K)
	}

	if opts.interactive {
		if err := c.runInteractive(ctx, ctrl, opts.region, names); err != nil {
			return err
		}
	} else if err := c.runOnce(ctx, ctrl, opts.region, names); err != nil {
		return err
	}

	if opts.save != "" {
		return c.saveSnapshot(ctx, ctrl, opts.save)
	}
	return nil
}

func selectAndRun(ctx context.Context, ctrl *view.Controller, id int) (*view.Result, error) {
	if err := ctrl.SelectRegion(id); err != nil {
		return nil, err
	}
	return ctrl.RunDistortion(ctx)
}

func (c *CLI) runOnce(ctx context.Context, ctrl *view.Controller, id int, names []string) error {
	spinner := newSpinner(ctx, fmt.Sprintf("Requesting region %d...", id))
	spinner.Start()
	res, err := selectAndRun(ctx, ctrl, id)
	if err != nil {
		spinner.StopWithError("Distortion failed")
		return err
	}
	spinner.Stop()

	printSuccess(c.out, "Distortion complete")
	printKeyValue(c.out, "endpoint", c.Config.Distortion.URL)
	printKeyValue(c.out, "k", fmt.Sprint(res.Params.K))
	printKeyValue(c.out, "measure", res.Params.Measure)
	printKeyValue(c.out, "region", fmt.Sprint(res.Params.Region))
	fmt.Fprintln(c.out, colorTable(res.Colors, names))
	return nil
}

func (c *CLI) runInteractive(ctx context.Context, ctrl *view.Controller, start int, names []string) error {
	run := func(ctx context.Context, id int) (*view.Result, error) {
		return selectAndRun(ctx, ctrl, id)
	}
	_, err := tea.NewProgram(NewRegionPicker(ctx, start, names, run), tea.WithContext(ctx)).Run()
	return err
}

func (c *CLI) saveSnapshot(ctx context.Context, ctrl *view.Controller, name string) error {
	store, err := c.Config.OpenSnapshots(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	snap := snapshot.New(ctrl.Snapshot(), name)
	if err := store.Save(ctx, snap); err != nil {
		return err
	}
	printSuccess(c.out, "Saved snapshot %s", snap.ID)
	return nil
}

// nodeNames lists the loaded primary graph's identities in ordinal order.
func nodeNames(snap view.ViewSnapshot) []string {
	names := make([]string, len(snap.Primary.Nodes))
	for i, n := range snap.Primary.Nodes {
		names[i] = n.ID
	}
	return names
}
