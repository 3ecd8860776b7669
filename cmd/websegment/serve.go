package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/segv/websegment"
)

var (
	serveAddr   string
	serveWatch  bool
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site",
	Long: `The serve command starts the web server. With --watch, changes under the
content directory empty the content stores so pages fetch them again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			siteCfg.Addr = serveAddr
		}
		if serveStatic != "" {
			staticDir = serveStatic
		}
		app := websegment.New(siteCfg, websegment.WithStaticDir(staticDir))
		if err := app.Init(); err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveWatch {
			go func() {
				if err := app.WatchContent(ctx, 300*time.Millisecond); err != nil {
					app.Echo.Logger.Errorf("watch: %v", err)
				}
			}()
		}

		errc := make(chan error, 1)
		go func() {
			errc <- app.Echo.Start(app.Config.Addr)
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Echo.Shutdown(shutdown)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "purge content stores when the content directory changes")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "directory served under /public (overrides config)")
}
