package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/server"
)

// shutdownTimeout is how long in-flight requests get after a signal.
const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		segments int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve clips over HTTP",
		Long: `Starts an HTTP server with OpenSCAD and PNG preview endpoints. The parameter
flags set the defaults that query values override.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.clipParams()
			if err != nil {
				return err
			}
			h := server.NewHandler(server.Options{
				Dir:      a.dir,
				Defaults: &p,
				Segments: segments,
				Fonts:    a.fonts,
			})

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", ln.Addr())
			return serve(ctx, ln, h)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&segments, "segments", 64, "circle resolution ($fn) of served files")
	return cmd
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		bottleclip.Logger().Info("server started", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err

	case <-ctx.Done():
		bottleclip.Logger().Info("server shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			bottleclip.Logger().Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return errors.Join(err, srv.Close())
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		bottleclip.Logger().Info("server stopped")
		return nil
	}
}
