// Package action implements the UI action registry and dispatcher: the
// table of mounted-view handlers and the single-slot "current action" that
// a chat turn produces and the gateway executes at most once.
package action

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// Known action types produced by the chat backend. The set is open: views
// may register handlers for types not listed here.
const (
	TypeSaveDraft        = "save_draft"
	TypeSubmitForReview  = "submit_for_review"
	TypeSelectTopic      = "select_topic"
	TypeSwitchTab        = "switch_tab"
	TypeEditArticle      = "edit_article"
	TypeCreateNewArticle = "create_new_article"
	TypeGotoHome         = "goto_home"
)

// Action is a single intended side effect or view change requested by a
// chat turn. Timestamp is a monotonic sequence number used as an
// idempotency token, not wall-clock time.
type Action struct {
	Type      string         `json:"type"`
	Params    map[string]any `json:"params,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// StringParam returns the named param as a string, coercing JSON numbers.
func (a Action) StringParam(key string) string {
	return coerceString(a.Params[key])
}

// Result is the outcome of executing an Action.
type Result struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Handler executes an action on behalf of a mounted view. A returned error
// is converted into a failed Result by the dispatcher; handlers never see
// their errors propagate further.
type Handler func(ctx context.Context, a Action) (Result, error)

// coerceString renders a params value as a string. JSON numbers arrive as
// float64; integral values must not grow a decimal point (article IDs end
// up in URLs).
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
