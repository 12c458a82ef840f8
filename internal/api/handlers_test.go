package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk-hq/newsdesk-go/internal/api"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/ratelimit"
	"github.com/newsdesk-hq/newsdesk-go/internal/session"
	"github.com/newsdesk-hq/newsdesk-go/internal/testutil"
)

type testEnv struct {
	chat     *testutil.StubChat
	platform *testutil.StubPlatform
	store    *session.Store
	ts       *httptest.Server
}

func newTestServer(t *testing.T, opts api.Options) *testEnv {
	t.Helper()
	env := &testEnv{
		chat:     &testutil.StubChat{},
		platform: &testutil.StubPlatform{},
	}
	env.store = session.NewStore(session.StoreConfig{
		Chat:     env.chat,
		Platform: env.platform,
	})

	srv, err := api.New(env.store, opts)
	require.NoError(t, err)
	env.ts = httptest.NewServer(srv)
	t.Cleanup(env.ts.Close)
	return env
}

func (e *testEnv) createSession(t *testing.T, role string) string {
	t.Helper()
	resp, err := http.Post(e.ts.URL+"/api/v1/sessions", "application/json",
		strings.NewReader(fmt.Sprintf(`{"role": %q}`, role)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp, err := http.Get(env.ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestCreateSession(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions", `{"role": "analyst", "view": "analyst_editor"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "analyst", snap.Role)
	assert.EqualValues(t, "analyst_editor", snap.View)
}

func TestCreateSession_InvalidRole(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions", `{"role": "superuser"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSession_MissingRole(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSession_NotFound(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp, err := http.Get(env.ts.URL + "/api/v1/sessions/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMessage_Turn(t *testing.T) {
	env := newTestServer(t, api.Options{})
	env.chat.Replies = []*chat.TurnReply{{Response: "Done, saved your draft."}}
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "save my draft"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var outcome struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.Equal(t, "Done, saved your draft.", outcome.Response)
}

func TestMessage_EmptyBody(t *testing.T) {
	env := newTestServer(t, api.Options{})
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMessage_ChatBackendDown(t *testing.T) {
	env := newTestServer(t, api.Options{})
	env.chat.Err = fmt.Errorf("backend unavailable")
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "hello"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestMessage_RateLimited(t *testing.T) {
	env := newTestServer(t, api.Options{
		Limiter: ratelimit.NewTurnLimiter(1, 1),
	})
	env.chat.Replies = []*chat.TurnReply{{Response: "ok"}}
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "one"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "two"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestMessage_BudgetExceeded(t *testing.T) {
	budget := ratelimit.NewTurnBudget(1, time.Minute)
	env := newTestServer(t, api.Options{Budget: budget})
	env.chat.Replies = []*chat.TurnReply{{Response: "ok"}}
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "one"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "two"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestMountView(t *testing.T) {
	env := newTestServer(t, api.Options{})
	id := env.createSession(t, "admin")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/view", `{"view": "admin_topics"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin_topics", body["view"])
}

func TestMountView_Unknown(t *testing.T) {
	env := newTestServer(t, api.Options{})
	id := env.createSession(t, "admin")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/view", `{"view": "mystery"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateContext(t *testing.T) {
	env := newTestServer(t, api.Options{})
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/context",
		`{"article_id": "a-7", "article_headline": "Rate decision looms"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "a-7", snap.Context.ArticleID)
	assert.Equal(t, "Rate decision looms", snap.Context.ArticleHeadline)
}

func TestConfirm_NoPending(t *testing.T) {
	env := newTestServer(t, api.Options{})
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/confirm", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestConfirm_ResolvesPending(t *testing.T) {
	env := newTestServer(t, api.Options{})
	env.chat.Replies = []*chat.TurnReply{{
		Response: "Ready to publish?",
		Confirmation: &chat.Confirmation{
			ID: "conf-1", Type: "publish_article", Title: "Publish",
			Message:         "Publish this article?",
			ConfirmEndpoint: "/api/articles/a-1/publish",
			ConfirmMethod:   "POST",
		},
	}}
	id := env.createSession(t, "analyst")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "publish it"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/confirm", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, env.platform.Calls, 1)
	assert.Equal(t, "/api/articles/a-1/publish", env.platform.Calls[0].Endpoint)

	// Second confirm has nothing left to resolve.
	resp = postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/confirm", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCancel_NotifiesBackend(t *testing.T) {
	env := newTestServer(t, api.Options{})
	env.chat.Replies = []*chat.TurnReply{{
		Response: "Delete this topic?",
		Confirmation: &chat.Confirmation{
			ID: "conf-9", Type: "delete_topic", Title: "Delete",
			Message: "Really delete?",
		},
	}}
	id := env.createSession(t, "admin")

	resp := postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/messages", `{"message": "delete the topic"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, env.ts.URL+"/api/v1/sessions/"+id+"/cancel", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"conf-9"}, env.chat.Cancellations)
}

func TestDeleteSession(t *testing.T) {
	env := newTestServer(t, api.Options{})
	id := env.createSession(t, "reader")

	req, err := http.NewRequest(http.MethodDelete, env.ts.URL+"/api/v1/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(env.ts.URL + "/api/v1/sessions/" + id)
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestListSessions(t *testing.T) {
	env := newTestServer(t, api.Options{})
	env.createSession(t, "analyst")
	env.createSession(t, "admin")

	resp, err := http.Get(env.ts.URL + "/api/v1/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snaps []session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snaps))
	assert.Len(t, snaps, 2)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp, err := http.Get(env.ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCORSHeaders(t *testing.T) {
	env := newTestServer(t, api.Options{})

	resp, err := http.Get(env.ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
