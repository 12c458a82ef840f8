package views_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk-hq/newsdesk-go/internal/action"
	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/testutil"
	"github.com/newsdesk-hq/newsdesk-go/internal/views"
)

func newDeps() (views.Deps, *testutil.StubPlatform) {
	p := &testutil.StubPlatform{}
	return views.Deps{
		Platform: p,
		Nav:      assistant.NewNavContext("analyst"),
		Editor:   assistant.NewEditorStore(),
	}, p
}

func TestMountUnknownView(t *testing.T) {
	t.Parallel()
	deps, _ := newDeps()
	_, err := views.Mount(action.NewRegistry(), "reader_dashboard", deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view")
}

func TestMountRegistersAndDisposes(t *testing.T) {
	t.Parallel()
	deps, _ := newDeps()
	reg := action.NewRegistry()

	dispose, err := views.Mount(reg, views.ViewAnalystEditor, deps)
	require.NoError(t, err)

	_, ok := reg.Resolve(action.TypeSaveDraft)
	assert.True(t, ok)
	_, ok = reg.Resolve(action.TypeSubmitForReview)
	assert.True(t, ok)

	dispose()
	_, ok = reg.Resolve(action.TypeSaveDraft)
	assert.False(t, ok, "unmount must unregister every handler")
	assert.Empty(t, reg.Types())
}

func TestViewSwitchShadowsAndRestores(t *testing.T) {
	t.Parallel()
	deps, _ := newDeps()
	reg := action.NewRegistry()

	disposeA, err := views.Mount(reg, views.ViewAnalystArticles, deps)
	require.NoError(t, err)
	disposeB, err := views.Mount(reg, views.ViewAnalystEditor, deps)
	require.NoError(t, err)

	// Both views registered select_topic; the later mount wins.
	assert.Len(t, reg.Handlers(action.TypeSelectTopic), 2)

	disposeB()
	_, ok := reg.Resolve(action.TypeSelectTopic)
	assert.True(t, ok, "earlier view's handler survives the later unmount")
	_, ok = reg.Resolve(action.TypeSaveDraft)
	assert.False(t, ok)

	disposeA()
	assert.Empty(t, reg.Types())
}

func TestSaveDraftUsesEditorAndContext(t *testing.T) {
	t.Parallel()
	deps, p := newDeps()
	reg := action.NewRegistry()
	_, err := views.Mount(reg, views.ViewAnalystEditor, deps)
	require.NoError(t, err)

	deps.Nav.SetArticle("42", "Rates climb", "draft", nil)
	deps.Editor.Set(chat.EditorContent{Headline: "Rates climb again", Content: "body", Action: "replace"})

	h, ok := reg.Resolve(action.TypeSaveDraft)
	require.True(t, ok)
	res, err := h(context.Background(), action.Action{Type: action.TypeSaveDraft})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.Len(t, p.Calls, 1)
	assert.Equal(t, "PUT", p.Calls[0].Method)
	assert.Equal(t, "/api/articles/42", p.Calls[0].Endpoint)
	assert.Equal(t, "Rates climb again", p.Calls[0].Body["headline"])
}

func TestSaveDraftWithoutArticle(t *testing.T) {
	t.Parallel()
	deps, p := newDeps()
	reg := action.NewRegistry()
	_, err := views.Mount(reg, views.ViewAnalystEditor, deps)
	require.NoError(t, err)

	h, _ := reg.Resolve(action.TypeSaveDraft)
	_, err = h(context.Background(), action.Action{Type: action.TypeSaveDraft})
	require.Error(t, err)
	assert.Zero(t, len(p.Calls))
}

func TestSubmitForReviewUpdatesStatus(t *testing.T) {
	t.Parallel()
	deps, p := newDeps()
	reg := action.NewRegistry()
	_, err := views.Mount(reg, views.ViewAnalystEditor, deps)
	require.NoError(t, err)

	deps.Nav.SetArticle("42", "Rates", "draft", nil)

	h, _ := reg.Resolve(action.TypeSubmitForReview)
	res, err := h(context.Background(), action.Action{Type: action.TypeSubmitForReview})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.Len(t, p.Calls, 1)
	assert.Equal(t, "/api/articles/42/submit", p.Calls[0].Endpoint)
	assert.Equal(t, "in_review", deps.Nav.ForAPI().ArticleStatus)
}

func TestSelectTopicMutatesContext(t *testing.T) {
	t.Parallel()
	deps, _ := newDeps()
	reg := action.NewRegistry()
	_, err := views.Mount(reg, views.ViewAnalystArticles, deps)
	require.NoError(t, err)

	h, _ := reg.Resolve(action.TypeSelectTopic)
	res, err := h(context.Background(), action.Action{
		Type:   action.TypeSelectTopic,
		Params: map[string]any{"topic": "economy"},
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "economy", deps.Nav.ForAPI().Topic)
}

func TestAdminTopicHandlers(t *testing.T) {
	t.Parallel()
	deps, p := newDeps()
	reg := action.NewRegistry()
	_, err := views.Mount(reg, views.ViewAdminTopics, deps)
	require.NoError(t, err)

	create, _ := reg.Resolve("create_topic")
	_, err = create(context.Background(), action.Action{Type: "create_topic", Params: map[string]any{"name": "Science"}})
	require.NoError(t, err)

	del, _ := reg.Resolve("delete_topic")
	_, err = del(context.Background(), action.Action{Type: "delete_topic", Params: map[string]any{"topic_id": "t-3"}})
	require.NoError(t, err)

	require.Len(t, p.Calls, 2)
	assert.Equal(t, "POST", p.Calls[0].Method)
	assert.Equal(t, "/api/topics", p.Calls[0].Endpoint)
	assert.Equal(t, "DELETE", p.Calls[1].Method)
	assert.Equal(t, "/api/topics/t-3", p.Calls[1].Endpoint)
}
