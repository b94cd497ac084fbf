package web

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	return Serve(ctx, ln, h)
}

func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 2 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", "http://"+ln.Addr().String()).Msg("dashboard listening")
	if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve http")
	}
	return nil
}
