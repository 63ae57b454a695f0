package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolDetails/internal/storage"
)

func runShow(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	if err := a.load(ctx); err != nil {
		return err
	}

	skipQuickLinks, _ := cmd.Flags().GetBool("skip-quick-links")
	html := a.svc.RenderHTML(args[0], skipQuickLinks)
	if html == "" {
		return fmt.Errorf("pool %s not found", args[0])
	}

	fmt.Fprintln(cmd.OutOrStdout(), html)
	return nil
}

func runTooltip(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	if err := a.load(ctx); err != nil {
		return err
	}

	text, ok := a.svc.RenderTooltip(args[0])
	if !ok {
		return fmt.Errorf("pool %s not found", args[0])
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	if err := a.load(ctx); err != nil {
		return err
	}

	for _, id := range a.svc.PoolIDs() {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}

	ctx, stop := signalContext()
	defer stop()

	if err := a.load(ctx); err != nil {
		return err
	}

	records := a.svc.Records()
	if err := storage.NewJsonlStorage(a.cfg.Out).PutRecords(records); err != nil {
		return err
	}

	a.logger.Info("export done",
		zap.String("out", a.cfg.Out),
		zap.Int("records", len(records)),
	)
	return nil
}
