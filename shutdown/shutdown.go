// Package shutdown stops the resumerag service in ordered phases.
//
// The HTTP listener stops first so no new uploads or queries arrive, then
// in-flight work drains, then long-lived resources (the catalog index,
// provider clients, the rate limiter) are released. Handlers in the same
// phase run concurrently; phases run in ascending order.
//
//	coord := shutdown.NewCoordinator(shutdown.DefaultConfig())
//	coord.RegisterFunc("http", shutdown.PhaseListener, srv.Shutdown)
//	coord.RegisterFunc("catalog", shutdown.PhaseResources, closeCatalog)
//	coord.HandleSignals()
//	<-coord.Done()
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/vinayprograms/resumerag/logging"
)

// Phases used by the service. Lower phases run first.
const (
	PhaseListener  = 10
	PhaseWork      = 50
	PhaseResources = 100
)

var (
	// ErrTimeout means the deadline passed before every phase ran.
	ErrTimeout = errors.New("shutdown timeout exceeded")

	// ErrHandlerFailed means at least one handler returned an error.
	ErrHandlerFailed = errors.New("one or more handlers failed")
)

// Handler is implemented by components that need to release something.
// ctx is cancelled when the shutdown deadline passes.
type Handler interface {
	OnShutdown(ctx context.Context) error
}

// Func adapts a function to Handler.
type Func func(ctx context.Context) error

// OnShutdown implements Handler.
func (f Func) OnShutdown(ctx context.Context) error {
	return f(ctx)
}

// HandlerResult is the outcome of one handler.
type HandlerResult struct {
	Name     string
	Phase    int
	Duration time.Duration
	Err      error
}

// Result is the outcome of a whole shutdown.
type Result struct {
	TotalDuration time.Duration
	Results       []HandlerResult
	Err           error
}

// FailedHandlers returns the names of handlers that returned an error.
func (r *Result) FailedHandlers() []string {
	var failed []string
	for _, hr := range r.Results {
		if hr.Err != nil {
			failed = append(failed, hr.Name)
		}
	}
	return failed
}

// Config configures a Coordinator.
type Config struct {
	// Timeout bounds a signal-triggered shutdown. Default: 30 seconds.
	Timeout time.Duration

	// ContinueOnError keeps running later phases after a handler fails.
	ContinueOnError bool

	// Logger receives one line per handler. Nil disables logging.
	Logger *logging.Logger
}

// DefaultConfig returns a 30 second timeout that continues past errors.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		ContinueOnError: true,
	}
}

type registration struct {
	name    string
	handler Handler
	phase   int
}

// Coordinator runs registered handlers once, phase by phase.
type Coordinator struct {
	config Config

	mu       sync.Mutex
	handlers []registration
	once     sync.Once
	done     chan struct{}
	result   *Result
	signals  chan os.Signal
}

// NewCoordinator creates a coordinator.
func NewCoordinator(config Config) *Coordinator {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.Logger != nil {
		config.Logger = config.Logger.WithComponent("shutdown")
	}
	return &Coordinator{
		config:  config,
		done:    make(chan struct{}),
		signals: make(chan os.Signal, 1),
	}
}

// Register adds a handler to phase.
func (c *Coordinator) Register(name string, phase int, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, registration{name: name, handler: h, phase: phase})
}

// RegisterFunc adds a function handler to phase.
func (c *Coordinator) RegisterFunc(name string, phase int, fn func(ctx context.Context) error) {
	c.Register(name, phase, Func(fn))
}

// Shutdown runs every phase. Only the first call does any work; later calls
// block until it finishes and return its error.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		c.result = c.run(ctx)
		close(c.done)
	})
	return c.result.Err
}

// HandleSignals starts shutdown on SIGINT or SIGTERM.
func (c *Coordinator) HandleSignals() {
	signal.Notify(c.signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		select {
		case sig := <-c.signals:
			if c.config.Logger != nil {
				c.config.Logger.Info("signal_received", map[string]interface{}{"signal": sig.String()})
			}
			ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
			defer cancel()
			c.Shutdown(ctx)
		case <-c.done:
		}
		signal.Stop(c.signals)
	}()
}

// Trigger simulates a termination signal.
func (c *Coordinator) Trigger() {
	select {
	case c.signals <- syscall.SIGTERM:
	default:
	}
}

// Done is closed once shutdown has finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Result returns the shutdown outcome, or nil while shutdown has not finished.
func (c *Coordinator) Result() *Result {
	select {
	case <-c.done:
		return c.result
	default:
		return nil
	}
}

func (c *Coordinator) run(ctx context.Context) *Result {
	start := time.Now()

	c.mu.Lock()
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].phase < handlers[j].phase
	})

	result := &Result{}
	for _, group := range groupByPhase(handlers) {
		if ctx.Err() != nil {
			result.Err = ErrTimeout
			break
		}

		phaseResults := c.runPhase(ctx, group)
		result.Results = append(result.Results, phaseResults...)

		failed := false
		for _, hr := range phaseResults {
			if hr.Err != nil {
				failed = true
			}
		}
		if failed {
			result.Err = ErrHandlerFailed
			if !c.config.ContinueOnError {
				break
			}
		}
	}
	result.TotalDuration = time.Since(start)
	return result
}

func (c *Coordinator) runPhase(ctx context.Context, group []registration) []HandlerResult {
	results := make([]HandlerResult, len(group))
	var wg sync.WaitGroup
	for i, reg := range group {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := reg.handler.OnShutdown(ctx)
			results[i] = HandlerResult{Name: reg.name, Phase: reg.phase, Duration: time.Since(start), Err: err}
			c.report(results[i])
		}()
	}
	wg.Wait()
	return results
}

func (c *Coordinator) report(hr HandlerResult) {
	if c.config.Logger == nil {
		return
	}
	fields := map[string]interface{}{
		"handler":  hr.Name,
		"phase":    hr.Phase,
		"duration": hr.Duration.String(),
	}
	if hr.Err != nil {
		fields["error"] = hr.Err.Error()
		c.config.Logger.Warn("handler_failed", fields)
		return
	}
	c.config.Logger.Debug("handler_done", fields)
}

// groupByPhase splits phase-sorted handlers into runs of equal phase.
func groupByPhase(handlers []registration) [][]registration {
	var groups [][]registration
	for i, h := range handlers {
		if i == 0 || h.phase != handlers[i-1].phase {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], h)
	}
	return groups
}
