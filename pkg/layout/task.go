package layout

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/grapher/pkg/errors"
)

// DefaultAckGrace is how long a cancelled task waits for the engine to stop.
const DefaultAckGrace = 2 * time.Second

// Task is a layout running in its own goroutine.
type Task struct {
	parent    context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	cancelled atomic.Bool
	once      sync.Once

	resp *Response
	err  error
}

// Start runs engine.Layout(req) in a new goroutine.
func Start(ctx context.Context, engine Engine, req *Request) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task{
		parent: ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		t.resp, t.err = engine.Layout(taskCtx, req)
	}()
	return t
}

// Done is closed when the engine returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel asks the engine to stop. It does not wait; the task reports
// StatusCancelled from now on, whatever the engine returns.
func (t *Task) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		t.cancel()
	})
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool { return t.cancelled.Load() }

// Wait blocks until the engine returns or ctx is done. When ctx ends first
// the task is cancelled and waits up to DefaultAckGrace for the engine.
func (t *Task) Wait(ctx context.Context) (*Response, Status, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return t.cancelAndDrain(DefaultAckGrace)
	}
}

// Result returns the outcome. It must only be called after Done is closed.
func (t *Task) Result() (*Response, Status, error) {
	return settle(t.parent, t.resp, t.err, t.cancelled.Load())
}

func (t *Task) cancelAndDrain(grace time.Duration) (*Response, Status, error) {
	t.Cancel()
	if grace <= 0 {
		grace = DefaultAckGrace
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-t.done:
	case <-timer.C:
	}
	return nil, StatusCancelled, nil
}

// settle maps an engine return to an outcome. A cancel acknowledgement, an
// explicit cancel, or a context cancellation all yield StatusCancelled
// without a response.
func settle(ctx context.Context, resp *Response, err error, cancelled bool) (*Response, Status, error) {
	if cancelled || resp.Cancelled() {
		return nil, StatusCancelled, nil
	}
	if err != nil {
		if stderrors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, StatusCancelled, nil
		}
		if errors.GetCode(err) != "" {
			return nil, StatusFailed, err
		}
		return nil, StatusFailed, errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout engine")
	}
	if resp == nil {
		return nil, StatusFailed, errors.New(errors.ErrCodeLayoutFailed, "layout engine returned no response")
	}
	if resp.Type == "" {
		resp.Type = TypeLayout
	}
	return resp, StatusDone, nil
}

// AwaitOptions configure [Await].
type AwaitOptions struct {
	Timeout  time.Duration
	Prompter Prompter
	Message  string
	AckGrace time.Duration
}

// Await waits for t. Each time Timeout elapses the prompter is asked; on
// DecisionWait the task keeps running with no further prompts, on
// DecisionCancel (or a nil prompter) it is cancelled. The prompt is withdrawn
// by cancelling its context as soon as the task finishes.
func Await(ctx context.Context, t *Task, opts AwaitOptions) (*Response, Status, error) {
	if opts.Message == "" {
		opts.Message = LargeGraphMessage
	}
	if opts.Timeout <= 0 {
		return t.Wait(ctx)
	}

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	select {
	case <-t.Done():
		return t.Result()
	case <-ctx.Done():
		return t.cancelAndDrain(opts.AckGrace)
	case <-timer.C:
	}

	if opts.Prompter == nil {
		return t.cancelAndDrain(opts.AckGrace)
	}

	promptCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-t.Done():
			stop()
		case <-promptCtx.Done():
		}
	}()

	decision, err := opts.Prompter.Prompt(promptCtx, opts.Message)
	select {
	case <-t.Done():
		// Finished while the prompt was open; the answer no longer matters.
		return t.Result()
	default:
	}
	if err != nil {
		if ctx.Err() != nil {
			return t.cancelAndDrain(opts.AckGrace)
		}
		t.Cancel()
		return nil, StatusFailed, errors.Wrap(errors.ErrCodeLayoutTimeout, err, "layout prompt")
	}
	if decision == DecisionCancel {
		return t.cancelAndDrain(opts.AckGrace)
	}
	return t.Wait(ctx)
}
