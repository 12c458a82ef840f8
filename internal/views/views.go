// Package views defines the per-view handler sets that execute UI actions
// on behalf of the page a session currently has mounted. Mounting a view
// registers its handlers with the session's action registry; the returned
// disposer unregisters them on unmount.
package views

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsdesk-hq/newsdesk-go/internal/action"
	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/platform"
)

// View names the page component a session reports as mounted.
type View string

const (
	ViewNone            View = ""
	ViewAnalystEditor   View = "analyst_editor"
	ViewAnalystArticles View = "analyst_articles"
	ViewAdminTopics     View = "admin_topics"
	ViewResourceLibrary View = "resource_library"
)

// Known reports whether v names a view this gateway can mount.
func Known(v View) bool {
	switch v {
	case ViewNone, ViewAnalystEditor, ViewAnalystArticles, ViewAdminTopics, ViewResourceLibrary:
		return true
	}
	return false
}

// Deps are the collaborators a view's handlers close over.
type Deps struct {
	Platform platform.API
	Nav      *assistant.NavContext
	Editor   *assistant.EditorStore
	Logger   *slog.Logger
}

// Mount registers the handler set for v and returns a disposer that
// removes every handler it registered. Mounting ViewNone registers
// nothing and returns a no-op disposer.
func Mount(reg *action.Registry, v View, deps Deps) (func(), error) {
	if !Known(v) {
		return nil, fmt.Errorf("views: unknown view %q", v)
	}

	var disposers []func()
	register := func(actionType string, h action.Handler) {
		disposers = append(disposers, reg.Register(actionType, h))
	}

	switch v {
	case ViewAnalystEditor:
		register(action.TypeSaveDraft, saveDraft(deps))
		register(action.TypeSubmitForReview, submitForReview(deps))
		register(action.TypeSelectTopic, selectTopic(deps))
		register(action.TypeSwitchTab, switchTab(deps))
	case ViewAnalystArticles:
		register(action.TypeSelectTopic, selectTopic(deps))
		register(action.TypeSwitchTab, switchTab(deps))
	case ViewAdminTopics:
		register("create_topic", createTopic(deps))
		register("delete_topic", deleteTopic(deps))
	case ViewResourceLibrary:
		register("link_resource", linkResource(deps))
		register(action.TypeSwitchTab, switchTab(deps))
	}

	dispose := func() {
		for _, d := range disposers {
			d()
		}
	}
	return dispose, nil
}

// articleID resolves the target article: an explicit param wins, the
// ambient context is the fallback.
func articleID(a action.Action, deps Deps) string {
	if id := a.StringParam("article_id"); id != "" {
		return id
	}
	return deps.Nav.ForAPI().ArticleID
}

func saveDraft(deps Deps) action.Handler {
	return func(ctx context.Context, a action.Action) (action.Result, error) {
		id := articleID(a, deps)
		if id == "" {
			return action.Result{}, fmt.Errorf("no article open to save")
		}

		body := map[string]any{}
		if ec, ok := deps.Editor.Current(); ok {
			if ec.Headline != "" {
				body["headline"] = ec.Headline
			}
			if ec.Content != "" {
				body["content"] = ec.Content
			}
			if len(ec.Keywords) > 0 {
				body["keywords"] = ec.Keywords
			}
		}

		msg, err := deps.Platform.Call(ctx, "PUT", "/api/articles/"+id, body)
		if err != nil {
			return action.Result{}, err
		}
		if msg == "" {
			msg = "Draft saved."
		}
		return action.Result{Success: true, Action: a.Type, Message: msg, Data: map[string]any{"article_id": id}}, nil
	}
}

func submitForReview(deps Deps) action.Handler {
	return func(ctx context.Context, a action.Action) (action.Result, error) {
		id := articleID(a, deps)
		if id == "" {
			return action.Result{}, fmt.Errorf("no article open to submit")
		}

		msg, err := deps.Platform.Call(ctx, "POST", "/api/articles/"+id+"/submit", nil)
		if err != nil {
			return action.Result{}, err
		}
		if msg == "" {
			msg = "Submitted for review."
		}
		deps.Nav.ApplyArticle(chat.ArticleContext{ArticleID: id, Status: "in_review"})
		return action.Result{Success: true, Action: a.Type, Message: msg}, nil
	}
}

func selectTopic(deps Deps) action.Handler {
	return func(_ context.Context, a action.Action) (action.Result, error) {
		topic := a.StringParam("topic")
		if topic == "" {
			topic = a.StringParam("topic_slug")
		}
		if topic == "" {
			return action.Result{}, fmt.Errorf("select_topic requires a topic param")
		}
		deps.Nav.SetTopic(topic)
		return action.Result{Success: true, Action: a.Type, Message: "Topic: " + topic}, nil
	}
}

func switchTab(deps Deps) action.Handler {
	return func(_ context.Context, a action.Action) (action.Result, error) {
		tab := a.StringParam("tab")
		if tab == "" {
			return action.Result{}, fmt.Errorf("switch_tab requires a tab param")
		}
		deps.Nav.SetViewMode(tab)
		return action.Result{Success: true, Action: a.Type, Message: "Switched to " + tab}, nil
	}
}

func createTopic(deps Deps) action.Handler {
	return func(ctx context.Context, a action.Action) (action.Result, error) {
		name := a.StringParam("name")
		if name == "" {
			return action.Result{}, fmt.Errorf("create_topic requires a name param")
		}
		msg, err := deps.Platform.Call(ctx, "POST", "/api/topics", map[string]any{"name": name})
		if err != nil {
			return action.Result{}, err
		}
		if msg == "" {
			msg = "Topic created: " + name
		}
		return action.Result{Success: true, Action: a.Type, Message: msg}, nil
	}
}

func deleteTopic(deps Deps) action.Handler {
	return func(ctx context.Context, a action.Action) (action.Result, error) {
		id := a.StringParam("topic_id")
		if id == "" {
			return action.Result{}, fmt.Errorf("delete_topic requires a topic_id param")
		}
		msg, err := deps.Platform.Call(ctx, "DELETE", "/api/topics/"+id, nil)
		if err != nil {
			return action.Result{}, err
		}
		if msg == "" {
			msg = "Topic deleted."
		}
		return action.Result{Success: true, Action: a.Type, Message: msg}, nil
	}
}

func linkResource(deps Deps) action.Handler {
	return func(ctx context.Context, a action.Action) (action.Result, error) {
		resourceID := a.StringParam("resource_id")
		if resourceID == "" {
			return action.Result{}, fmt.Errorf("link_resource requires a resource_id param")
		}
		id := articleID(a, deps)
		if id == "" {
			return action.Result{}, fmt.Errorf("no article open to link against")
		}
		msg, err := deps.Platform.Call(ctx, "POST", "/api/articles/"+id+"/resources", map[string]any{"resource_id": resourceID})
		if err != nil {
			return action.Result{}, err
		}
		if msg == "" {
			msg = "Resource linked."
		}
		return action.Result{Success: true, Action: a.Type, Message: msg}, nil
	}
}
