package action

import (
	"context"
	"fmt"
	"sync"
)

// NoHandlerError builds the sentinel error string reported when an action
// has no registered handler. The coordinator pattern-matches this exact
// shape to decide on fallback navigation, so the format is load-bearing.
func NoHandlerError(actionType string) string {
	return "No handler available for action: " + actionType
}

// IsNoHandler reports whether a failed result carries the no-handler
// sentinel for its own action type.
func IsNoHandler(res Result) bool {
	return !res.Success && res.Error == NoHandlerError(res.Action)
}

// Dispatcher holds the single "current action" produced by a chat turn and
// executes it against a Registry at most once.
//
// Dispatch overwrites any prior unexecuted action: a chat reply produces at
// most one action per turn and a stale unexecuted action is presumed
// superseded. The lastProcessed watermark guarantees that redundant
// ExecuteCurrent calls, including re-entrant ones from inside a handler,
// never run the same action twice.
type Dispatcher struct {
	registry *Registry

	mu            sync.Mutex
	current       *Action
	seq           int64
	lastProcessed int64

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan Result
}

// NewDispatcher creates a Dispatcher executing against registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		subs:     make(map[int]chan Result),
	}
}

// Dispatch stamps and stores the action as current, replacing any
// unexecuted predecessor. It returns the stored action.
func (d *Dispatcher) Dispatch(actionType string, params map[string]any) Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	a := Action{Type: actionType, Params: params, Timestamp: d.seq}
	d.current = &a
	return a
}

// Current returns the current action, if any, without consuming it.
func (d *Dispatcher) Current() (Action, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return Action{}, false
	}
	return *d.current, true
}

// ExecuteCurrent executes the current action if it has not already been
// processed. It returns (nil, false) when there is nothing to do: no
// action was dispatched, or the current one was already executed.
//
// The watermark advances before the handler runs, so a handler that
// re-enters ExecuteCurrent cannot re-run its own action. Handler errors
// and panics are converted into failed Results; ExecuteCurrent never
// returns an error to its caller.
func (d *Dispatcher) ExecuteCurrent(ctx context.Context) (*Result, bool) {
	d.mu.Lock()
	if d.current == nil || d.current.Timestamp <= d.lastProcessed {
		d.mu.Unlock()
		return nil, false
	}
	a := *d.current
	d.lastProcessed = a.Timestamp
	d.mu.Unlock()

	res := d.invoke(ctx, a)
	d.publish(res)
	return &res, true
}

func (d *Dispatcher) invoke(ctx context.Context, a Action) (res Result) {
	handler, ok := d.registry.Resolve(a.Type)
	if !ok {
		return Result{Success: false, Action: a.Type, Error: NoHandlerError(a.Type)}
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Success: false, Action: a.Type, Error: fmt.Sprintf("handler panic: %v", r)}
		}
	}()

	out, err := handler(ctx, a)
	if err != nil {
		return Result{Success: false, Action: a.Type, Error: err.Error()}
	}
	if out.Action == "" {
		out.Action = a.Type
	}
	return out
}

// Subscribe returns a channel of execution results and a cancel function.
// Slow subscribers drop results rather than block execution.
func (d *Dispatcher) Subscribe() (<-chan Result, func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	d.nextID++
	id := d.nextID
	ch := make(chan Result, 16)
	d.subs[id] = ch

	return ch, func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		if _, ok := d.subs[id]; ok {
			delete(d.subs, id)
			close(ch)
		}
	}
}

func (d *Dispatcher) publish(res Result) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- res:
		default:
		}
	}
}
