package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ast3d/internal/logging"
)

// ErrEngineStopped is returned by Do once the engine loop has exited
var ErrEngineStopped = errors.New("engine stopped")

type command struct {
	fn   func(*Session)
	done chan struct{}
}

// Engine runs the frame loop. Frames and commands execute on one goroutine,
// so the Session never sees concurrent access.
type Engine struct {
	session  *Session
	interval time.Duration
	cmds     chan command
	stopped  chan struct{}
	logger   *zap.Logger
}

// NewEngine creates an engine ticking every interval
func NewEngine(session *Session, interval time.Duration, logger *zap.Logger) *Engine {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Engine{
		session:  session,
		interval: interval,
		cmds:     make(chan command),
		stopped:  make(chan struct{}),
		logger:   logging.OrNop(logger).Named("engine"),
	}
}

// Run drives frames and commands until ctx is done
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.stopped)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("engine started", zap.Duration("frame_interval", e.interval))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return nil
		case now := <-ticker.C:
			e.session.Frame(now.Sub(last))
			last = now
		case cmd := <-e.cmds:
			cmd.fn(e.session)
			close(cmd.done)
		}
	}
}

// Do runs fn on the engine goroutine and waits for it to finish
func (e *Engine) Do(ctx context.Context, fn func(*Session) error) error {
	var err error
	cmd := command{
		fn:   func(s *Session) { err = fn(s) },
		done: make(chan struct{}),
	}

	select {
	case e.cmds <- cmd:
	case <-e.stopped:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		return err
	case <-e.stopped:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query runs fn on the engine goroutine and returns its result
func Query[T any](ctx context.Context, e *Engine, fn func(*Session) (T, error)) (T, error) {
	var out T
	err := e.Do(ctx, func(s *Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		// out may still be written by a command that outlived ctx
		var zero T
		return zero, err
	}
	return out, nil
}
