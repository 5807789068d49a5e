package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server wraps http.Server with the timeouts and shutdown sequence the API
// binary expects.
type Server struct {
	srv     *http.Server
	closers []func() error
}

// NewServer builds a server for the given address and handler. The closers
// run after the listener drains, in the order provided.
func NewServer(addr string, handler http.Handler, closers ...func() error) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		closers: closers,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests and runs
// the closers. Close errors are combined rather than masking one another.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return multierr.Append(err, s.close())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	return multierr.Combine(err, <-errCh, s.close())
}

func (s *Server) close() error {
	var errs []error
	for _, fn := range s.closers {
		if fn == nil {
			continue
		}
		errs = append(errs, fn())
	}
	return multierr.Combine(errs...)
}
