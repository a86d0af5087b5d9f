package layout

import "context"

// Decision is the answer to a timeout prompt.
type Decision int

// Decisions.
const (
	DecisionWait Decision = iota
	DecisionCancel
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	if d == DecisionCancel {
		return "cancel"
	}
	return "wait"
}

// Prompter asks whether a slow layout should continue.
//
// Prompt blocks until the user decides or ctx is done. ctx is cancelled when
// the layout finishes on its own, so implementations should withdraw the
// prompt and return ctx.Err() then.
type Prompter interface {
	Prompt(ctx context.Context, message string) (Decision, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, message string) (Decision, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, message string) (Decision, error) {
	return f(ctx, message)
}

// Always returns a prompter that answers d without asking.
func Always(d Decision) Prompter {
	return PrompterFunc(func(context.Context, string) (Decision, error) {
		return d, nil
	})
}
