package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wyweb/internal/server"
	"wyweb/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP compile service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := loadLibrary(ctx)
	if err != nil {
		return err
	}
	srv := server.New(newCompiler(l), app.cfg.Server, app.log)
	app.log.Info("starting", zap.String("version", version.String()), zap.String("addr", app.cfg.Server.Addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// события трассы, накопленные до остановки
		return app.tracer.Flush()
	})
	err = g.Wait()
	dumpTrace(cmd.ErrOrStderr(), "shutdown")
	if err != nil && err != context.Canceled {
		return err
	}
	app.log.Info("stopped")
	return nil
}
