package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"battleship/internal/printer"
	"battleship/internal/server"
	"battleship/internal/zk"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over a JSON HTTP API",
	Long: `Runs the single-player HTTP API used by presentation front-ends.

Endpoints:
  POST /v1/games               new game ({"seed": n} optional)
  GET  /v1/games/{id}          status
  POST /v1/games/{id}/shots    shoot ({"x": 1, "y": 1})
  POST /v1/games/{id}/ai       let the strategy shoot
  POST /v1/games/{id}/reset    new layout on the same board
  GET  /v1/games/{id}/proof    proof for ?x=&y= (needs server.keys_dir)`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	if cfg.Server.KeysDir != "" {
		log.Info().Str("dir", cfg.Server.KeysDir).Msg("preparing proving keys")
		if err := zk.EnsureKeys(cfg.Server.KeysDir); err != nil {
			return err
		}
	} else {
		printer.Warning("proofs disabled: set server.keys_dir to enable GET /v1/games/{id}/proof\n")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(cfg, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("serving")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
