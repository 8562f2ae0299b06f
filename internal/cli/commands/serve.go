package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"atr/internal/samples"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// ServeCommand handles the serve command
type ServeCommand struct {
	addr string
}

// NewServeCommand creates a new ServeCommand
func NewServeCommand(addr string) *ServeCommand {
	return &ServeCommand{addr: addr}
}

// Execute serves the sample API until the command context is cancelled
func (sc *ServeCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv := &http.Server{
		Addr:              sc.addr,
		Handler:           samples.NewAPIHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	color.Cyan("Serving sample API on http://%s", sc.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
