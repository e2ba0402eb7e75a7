package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
)

var debugProfiles = []string{"goroutine", "heap", "allocs", "block", "mutex", "threadcreate"}

// DebugServer serves net/http/pprof on its own listener, away from the
// public router.
type DebugServer struct {
	srv    *http.Server
	addr   string
	logger *logging.Logger
}

// StartDebugServer binds PPROF_ADDR before returning so a busy port fails
// startup. It returns nil when pprof is disabled.
func StartDebugServer(cfg config.Config, logger *logging.Logger) (*DebugServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil, nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, fmt.Errorf("listen pprof %s: %w", cfg.PprofAddr, err)
	}

	d := &DebugServer{
		srv: &http.Server{
			Handler:           newDebugMux(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr:   ln.Addr().String(),
		logger: logger,
	}

	go func() {
		logger.Info("pprof server starting", "addr", d.addr)
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
	return d, nil
}

func (d *DebugServer) Addr() string {
	if d == nil {
		return ""
	}
	return d.addr
}

func (d *DebugServer) Stop(ctx context.Context) error {
	if d == nil {
		return nil
	}
	if err := d.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop pprof server: %w", err)
	}
	d.logger.Info("pprof server stopped")
	return nil
}

func newDebugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	for _, name := range debugProfiles {
		mux.Handle("/debug/pprof/"+name, pprof.Handler(name))
	}
	return mux
}
