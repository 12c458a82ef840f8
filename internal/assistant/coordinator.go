// Package assistant implements the navigation/confirmation coordinator:
// the state machine that turns a chat reply into transcript entries,
// editor content, a dispatched UI action (with fallback navigation), a
// pending confirmation, or a navigation command.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsdesk-hq/newsdesk-go/internal/action"
	"github.com/newsdesk-hq/newsdesk-go/internal/agui"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/observability"
	"github.com/newsdesk-hq/newsdesk-go/internal/platform"
)

// ErrNoPendingConfirmation is returned by Confirm and Cancel when there is
// nothing to decide. A double-click on Confirm lands here.
var ErrNoPendingConfirmation = errors.New("assistant: no pending confirmation")

// navigationDelayMS is the UX pacing hint attached to navigation commands
// so the user can read the reply before the page changes.
const navigationDelayMS = 800

// PendingConfirmation is the single-slot HITL gate: the side-effecting
// call described by the chat backend, parked until the user decides.
type PendingConfirmation struct {
	chat.Confirmation
	ReceivedAt time.Time `json:"received_at"`
}

// TurnOutcome summarizes everything one chat turn produced. The API
// handler returns it to the caller; the same information also goes out as
// SSE events.
type TurnOutcome struct {
	Response      string               `json:"response"`
	Entries       []Entry              `json:"entries"`
	Navigation    *agui.NavigationData `json:"navigation,omitempty"`
	EditorContent *chat.EditorContent  `json:"editor_content,omitempty"`
	Confirmation  *PendingConfirmation `json:"confirmation,omitempty"`
	ActionResult  *action.Result       `json:"action_result,omitempty"`
	Display       DisplayInfo          `json:"display"`
}

// Config carries the coordinator's collaborators.
type Config struct {
	SessionID  string
	Role       string
	Chat       chat.Backend
	Platform   platform.API
	Dispatcher *action.Dispatcher
	Routes     *RouteTable
	Nav        *NavContext
	Editor     *EditorStore
	Transcript *Transcript
	Sink       agui.Sink
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

// Coordinator drives the per-turn state machine for one session.
type Coordinator struct {
	cfg    Config
	slot   confirmationSlot
	now    func() time.Time
	logger *slog.Logger
}

// NewCoordinator creates a Coordinator. Sink and Metrics may be nil.
func NewCoordinator(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With("session_id", cfg.SessionID),
	}
}

// Pending returns the current pending confirmation, if any.
func (c *Coordinator) Pending() (PendingConfirmation, bool) {
	return c.slot.get()
}

// ProcessMessage runs one full chat turn: send the message with ambient
// context, then apply the structured reply. A chat backend failure aborts
// the turn with a visible error entry and mutates no action or
// confirmation state.
func (c *Coordinator) ProcessMessage(ctx context.Context, text string) (*TurnOutcome, error) {
	entry := c.cfg.Transcript.Append(EntryUser, text)
	c.emit(agui.EventTranscriptEntry, entry)

	reply, err := c.cfg.Chat.SendTurn(ctx, chat.TurnRequest{
		Message: text,
		Context: c.cfg.Nav.ForAPI(),
	})
	if err != nil {
		c.cfg.Metrics.RecordTurn(ctx, c.cfg.Role, false)
		errEntry := c.cfg.Transcript.Append(EntryError, "The assistant is unavailable: "+err.Error())
		c.emit(agui.EventTranscriptEntry, errEntry)
		return nil, fmt.Errorf("assistant: chat turn: %w", err)
	}

	outcome := c.applyReply(ctx, reply)
	c.cfg.Metrics.RecordTurn(ctx, c.cfg.Role, true)
	return outcome, nil
}

// applyReply executes the four reply branches in the mandated order:
// editor content first, then article context, then UI action with
// fallback, then navigation. Navigation goes last because it may unmount
// the view that would otherwise handle the action.
func (c *Coordinator) applyReply(ctx context.Context, reply *chat.TurnReply) *TurnOutcome {
	outcome := &TurnOutcome{Response: reply.Response}

	if reply.EditorContent != nil {
		stored := c.cfg.Editor.Set(*reply.EditorContent)
		outcome.EditorContent = &stored
		c.emit(agui.EventEditorContent, stored)
	}

	if reply.ArticleContext != nil {
		c.cfg.Nav.ApplyArticle(*reply.ArticleContext)
		c.emit(agui.EventContextChanged, c.cfg.Nav.ForAPI())
	}

	if reply.Response != "" {
		entry := c.cfg.Transcript.Append(EntryAssistant, reply.Response)
		outcome.Entries = append(outcome.Entries, entry)
		c.emit(agui.EventTranscriptEntry, entry)
	}

	if reply.Confirmation != nil {
		pending := PendingConfirmation{Confirmation: *reply.Confirmation, ReceivedAt: c.now().UTC()}
		if replaced, ok := c.slot.set(pending); ok {
			c.logger.Warn("pending confirmation replaced", "old_id", replaced.ID, "new_id", pending.ID)
		}
		outcome.Confirmation = &pending
		c.emit(agui.EventConfirmationRequest, pending)
	}

	if reply.UIAction != nil {
		c.runUIAction(ctx, *reply.UIAction, outcome)
	}

	if reply.Navigation != nil {
		nav := agui.NavigationData{
			Action:  reply.Navigation.Action,
			Target:  reply.Navigation.Target,
			DelayMS: navigationDelayMS,
		}
		outcome.Navigation = &nav
		c.emit(agui.EventNavigation, nav)
	}

	outcome.Display = c.cfg.Nav.Display()
	return outcome
}

// runUIAction dispatches and executes one UI action, then interprets the
// result: no-handler failures go through the fallback route table, other
// failures surface in the transcript, successes need nothing further.
func (c *Coordinator) runUIAction(ctx context.Context, ua chat.UIAction, outcome *TurnOutcome) {
	c.cfg.Dispatcher.Dispatch(ua.Type, ua.Params)
	res, ok := c.cfg.Dispatcher.ExecuteCurrent(ctx)
	if !ok {
		return
	}
	// The dispatcher already published res to its result stream; the
	// session bridges that stream onto the bus, so no emit here.
	outcome.ActionResult = res
	c.cfg.Metrics.RecordAction(ctx, res.Action, res.Success)

	switch {
	case res.Success:
		// Handler already updated UI state.
	case action.IsNoHandler(*res):
		c.fallbackNavigate(ctx, ua, outcome)
	default:
		entry := c.cfg.Transcript.Append(EntryError, "Action failed: "+res.Error)
		outcome.Entries = append(outcome.Entries, entry)
		c.emit(agui.EventTranscriptEntry, entry)
	}
}

// fallbackNavigate routes the browser directly when no view handled the
// action. Unrecognized types are dropped silently: the action was likely
// advisory and an error banner would be worse than a no-op.
func (c *Coordinator) fallbackNavigate(ctx context.Context, ua chat.UIAction, outcome *TurnOutcome) {
	a := action.Action{Type: ua.Type, Params: ua.Params}

	if ua.Type == action.TypeCreateNewArticle {
		headline := a.StringParam("headline")
		if headline == "" {
			headline = "Untitled"
		}
		id, err := c.cfg.Platform.CreateArticle(ctx, headline)
		if err != nil {
			entry := c.cfg.Transcript.Append(EntryError, "Could not create the article: "+err.Error())
			outcome.Entries = append(outcome.Entries, entry)
			c.emit(agui.EventTranscriptEntry, entry)
			return
		}
		if a.Params == nil {
			a.Params = map[string]any{}
		}
		a.Params["article_id"] = id
		c.cfg.Nav.SetArticle(id, headline, "draft", nil)
	}

	target, ok := c.cfg.Routes.Expand(a, c.cfg.Role)
	if !ok {
		c.logger.Debug("no fallback route for action", "type", ua.Type)
		return
	}

	c.cfg.Metrics.RecordFallback(ctx, ua.Type)
	nav := agui.NavigationData{
		Action:  chat.NavActionNavigate,
		Target:  target,
		DelayMS: navigationDelayMS,
	}
	outcome.Navigation = &nav
	c.emit(agui.EventNavigation, nav)
}

// Confirm resolves the pending confirmation positively. The slot is
// cleared before the deferred call is made, so a second Confirm cannot
// double-fire. When the confirmation carries no endpoint the decision is
// re-sent through the normal chat pipeline instead.
func (c *Coordinator) Confirm(ctx context.Context) (*TurnOutcome, error) {
	pending, ok := c.slot.take()
	if !ok {
		return nil, ErrNoPendingConfirmation
	}
	c.cfg.Metrics.RecordConfirmation(ctx, true, c.now().Sub(pending.ReceivedAt))
	c.emit(agui.EventConfirmationResolved, agui.ConfirmationResolvedData{ID: pending.ID, Confirmed: true})

	label := pending.ConfirmLabel
	if label == "" {
		label = "Confirmed"
	}
	entry := c.cfg.Transcript.Append(EntrySystem, label+": "+pending.Title)
	c.emit(agui.EventTranscriptEntry, entry)

	if pending.ConfirmEndpoint == "" {
		// Data-less confirmation: the chat backend owns the follow-up, so
		// recurse into the normal turn pipeline.
		return c.ProcessMessage(ctx, fmt.Sprintf("confirm %s %s", pending.Type, pending.ID))
	}

	outcome := &TurnOutcome{Entries: []Entry{entry}}
	msg, err := c.cfg.Platform.Call(ctx, pending.ConfirmMethod, pending.ConfirmEndpoint, pending.ConfirmBody)
	if err != nil {
		// The slot stays cleared: the user must re-ask rather than retry a
		// stale prompt.
		errEntry := c.cfg.Transcript.Append(EntryError, "The confirmed operation failed: "+err.Error())
		outcome.Entries = append(outcome.Entries, errEntry)
		c.emit(agui.EventTranscriptEntry, errEntry)
		outcome.Display = c.cfg.Nav.Display()
		return outcome, nil
	}

	if msg == "" {
		msg = "Done."
	}
	okEntry := c.cfg.Transcript.Append(EntryAssistant, msg)
	outcome.Response = msg
	outcome.Entries = append(outcome.Entries, okEntry)
	c.emit(agui.EventTranscriptEntry, okEntry)
	outcome.Display = c.cfg.Nav.Display()
	return outcome, nil
}

// Cancel resolves the pending confirmation negatively. Notifying the chat
// backend is best-effort; its failure never blocks the cancellation.
func (c *Coordinator) Cancel(ctx context.Context) (*TurnOutcome, error) {
	pending, ok := c.slot.take()
	if !ok {
		return nil, ErrNoPendingConfirmation
	}
	c.cfg.Metrics.RecordConfirmation(ctx, false, c.now().Sub(pending.ReceivedAt))
	c.emit(agui.EventConfirmationResolved, agui.ConfirmationResolvedData{ID: pending.ID, Confirmed: false})

	label := pending.CancelLabel
	if label == "" {
		label = "Cancelled"
	}
	entry := c.cfg.Transcript.Append(EntrySystem, label+": "+pending.Title)
	c.emit(agui.EventTranscriptEntry, entry)

	if err := c.cfg.Chat.NotifyCancellation(ctx, pending.ID); err != nil {
		c.logger.Warn("cancellation notification failed", "confirmation_id", pending.ID, "error", err)
	}

	return &TurnOutcome{
		Entries: []Entry{entry},
		Display: c.cfg.Nav.Display(),
	}, nil
}

func (c *Coordinator) emit(t agui.EventType, data any) {
	if c.cfg.Sink == nil {
		return
	}
	c.cfg.Sink.Publish(agui.Event{
		Type:      t,
		Timestamp: c.now().UTC(),
		SessionID: c.cfg.SessionID,
		Data:      data,
	})
}
