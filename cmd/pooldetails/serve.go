package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolDetails/internal/server"
)

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	// A failed load is reported on /health instead of stopping the server.
	if result := a.svc.Load(ctx); result.Failed() {
		a.logger.Warn("serving without pool details", zap.Error(result.Err()))
	}

	srv := server.New(a.svc, a.metrics, a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(a.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down server")
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}
