package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrRefreshRunning is returned when a refresh is requested while one is in progress
var ErrRefreshRunning = errors.New("refresh already in progress")

// RefreshFunc drops or reloads one cached data source
type RefreshFunc func(ctx context.Context) error

type refreshJob struct {
	name string
	fn   RefreshFunc
}

// Options configures the daemon
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RefreshSpec     string // Standard 5-field cron expression, empty disables refresh
}

// Daemon serves the schedule API and periodically refreshes cached data
type Daemon struct {
	server          *http.Server
	shutdownTimeout time.Duration
	refreshSpec     string
	scheduler       *cron.Cron
	logger          *zap.Logger
	ctx             context.Context
	cancel          context.CancelFunc

	mu              sync.Mutex // Protects refresh state
	jobs            []refreshJob
	refreshRunning  bool
	lastRefreshTime time.Time
}

// New creates a new daemon instance
func New(handler http.Handler, opts Options, logger *zap.Logger) (*Daemon, error) {
	if opts.RefreshSpec != "" {
		if _, err := cron.ParseStandard(opts.RefreshSpec); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", opts.RefreshSpec, err)
		}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		shutdownTimeout: opts.ShutdownTimeout,
		refreshSpec:     opts.RefreshSpec,
		scheduler:       cron.New(),
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}, nil
}

// RegisterRefresh adds a refresh step executed on every scheduled run
func (d *Daemon) RegisterRefresh(name string, fn RefreshFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, refreshJob{name: name, fn: fn})
}

// Start listens on the configured address and blocks until
// a termination signal arrives or Stop is called
func (d *Daemon) Start() error {
	listener, err := net.Listen("tcp", d.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.server.Addr, err)
	}
	return d.Serve(listener)
}

// Serve runs the daemon on an existing listener
func (d *Daemon) Serve(listener net.Listener) error {
	d.logger.Info("Daemon started",
		zap.String("addr", listener.Addr().String()),
		zap.String("refresh_schedule", d.refreshSpec))

	if d.refreshSpec != "" {
		if _, err := d.scheduler.AddFunc(d.refreshSpec, d.scheduledRefresh); err != nil {
			return fmt.Errorf("failed to schedule refresh: %w", err)
		}
		d.scheduler.Start()
		defer d.scheduler.Stop()
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-d.ctx.Done():
		d.logger.Info("Daemon stop requested")
	}

	return d.shutdown()
}

func (d *Daemon) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	d.logger.Info("Daemon stopped")
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) scheduledRefresh() {
	d.logger.Info("Starting scheduled refresh")
	if err := d.RunRefresh(d.ctx); err != nil {
		d.logger.Error("Scheduled refresh failed", zap.Error(err))
	}
}

// RunRefresh executes every registered refresh step once.
// Steps keep running after a failure; all failures are returned joined.
func (d *Daemon) RunRefresh(ctx context.Context) error {
	d.mu.Lock()
	if d.refreshRunning {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return ErrRefreshRunning
	}
	d.refreshRunning = true
	jobs := append([]refreshJob(nil), d.jobs...)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.refreshRunning = false
		d.mu.Unlock()
	}()

	var errs []error
	for _, job := range jobs {
		if err := job.fn(ctx); err != nil {
			d.logger.Warn("Refresh step failed",
				zap.String("step", job.name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", job.name, err))
			continue
		}
		d.logger.Debug("Refresh step completed", zap.String("step", job.name))
	}

	d.mu.Lock()
	d.lastRefreshTime = time.Now()
	d.mu.Unlock()

	d.logger.Info("Refresh completed",
		zap.Int("steps", len(jobs)),
		zap.Int("failed", len(errs)))

	return errors.Join(errs...)
}

// LastRefresh returns when the last refresh finished
func (d *Daemon) LastRefresh() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRefreshTime
}
