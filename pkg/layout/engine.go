package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/observability"
)

// Engine places nodes and routes edges.
//
// Layout must honor ctx: when ctx is cancelled the engine stops as soon as it
// can and returns [CancelResponse] (or ctx.Err()). A successful response has
// type [TypeLayout].
type Engine interface {
	Layout(ctx context.Context, req *Request) (*Response, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, req *Request) (*Response, error)

// Layout implements Engine.
func (f EngineFunc) Layout(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Namer is implemented by engines that report a name for logs and metrics.
type Namer interface {
	Name() string
}

// EngineName returns the engine's name or "engine".
func EngineName(e Engine) string {
	if n, ok := e.(Namer); ok {
		return n.Name()
	}
	return "engine"
}

// Status is the outcome of a layout run.
type Status int

// Layout outcomes.
const (
	StatusDone Status = iota
	StatusCancelled
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Err converts a cancelled status into a LAYOUT_CANCELLED error for callers
// that prefer an error value. Other statuses return nil.
func (s Status) Err() error {
	if s == StatusCancelled {
		return errors.New(errors.ErrCodeLayoutCancelled, "layout cancelled")
	}
	return nil
}

// LargeGraphMessage is the prompt shown when a layout exceeds its timeout.
const LargeGraphMessage = "This large graph layout might take a very long time to complete."

// DefaultTimeout is how long a delegated layout may run before the prompt.
const DefaultTimeout = 2500 * time.Millisecond

// RunOptions configure [Run].
type RunOptions struct {
	// Timeout before the prompter is asked; zero runs the engine
	// synchronously without a prompt.
	Timeout time.Duration
	// Prompter decides on timeout; nil cancels.
	Prompter Prompter
	// Message is passed to the prompter, LargeGraphMessage when empty.
	Message string
	// AckGrace bounds the wait for a cancelled engine, DefaultAckGrace
	// when zero.
	AckGrace time.Duration
	Logger   *log.Logger
}

// Run lays out req with engine. Without a timeout the engine is called
// directly; otherwise it runs as a Task awaited with the prompt.
// Engine failures are returned as LAYOUT_FAILED errors with StatusFailed.
func Run(ctx context.Context, engine Engine, req *Request, opts RunOptions) (*Response, Status, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	name := EngineName(engine)
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, name, len(req.Nodes), len(req.Edges))
	start := time.Now()

	var (
		resp   *Response
		status Status
		err    error
	)
	if opts.Timeout <= 0 {
		resp, err = engine.Layout(ctx, req)
		resp, status, err = settle(ctx, resp, err, false)
	} else {
		task := Start(ctx, engine, req)
		resp, status, err = Await(ctx, task, AwaitOptions{
			Timeout:  opts.Timeout,
			Prompter: opts.Prompter,
			Message:  opts.Message,
			AckGrace: opts.AckGrace,
		})
	}
	if status == StatusDone {
		if verr := resp.Validate(req); verr != nil {
			resp, status, err = nil, StatusFailed, verr
		}
	}

	duration := time.Since(start)
	hooks.OnLayoutComplete(ctx, name, status.String(), duration, err)
	logger.Debug("layout finished", "engine", name, "status", status, "nodes", len(req.Nodes), "duration", duration)
	return resp, status, err
}
