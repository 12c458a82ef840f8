package assistant

import (
	"regexp"
	"strings"

	"github.com/newsdesk-hq/newsdesk-go/internal/action"
)

// RouteTable maps action types to URL templates for fallback navigation:
// when a dispatched action has no registered handler, the coordinator
// routes the browser directly instead.
//
// Templates may reference {role} and any action param by name, e.g.
// "/{role}/edit/{article_id}". A template whose placeholder has no value
// does not expand; the action is then silently dropped.
type RouteTable struct {
	routes map[string]string
}

// DefaultRoutes returns the built-in fallback routes. Deployments override
// or extend them via the routes TOML file.
func DefaultRoutes() map[string]string {
	return map[string]string{
		action.TypeEditArticle:      "/{role}/edit/{article_id}",
		action.TypeGotoHome:         "/{role}",
		"goto_articles":             "/{role}/articles",
		"goto_topics":               "/admin/topics",
		"goto_resources":            "/{role}/resources",
		"goto_users":                "/admin/users",
		action.TypeCreateNewArticle: "/{role}/edit/{article_id}",
	}
}

// NewRouteTable builds a table from defaults plus overrides. An override
// with an empty template removes the route.
func NewRouteTable(overrides map[string]string) *RouteTable {
	routes := DefaultRoutes()
	for t, tmpl := range overrides {
		if tmpl == "" {
			delete(routes, t)
			continue
		}
		routes[t] = tmpl
	}
	return &RouteTable{routes: routes}
}

// Has reports whether a fallback route exists for actionType.
func (rt *RouteTable) Has(actionType string) bool {
	_, ok := rt.routes[actionType]
	return ok
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand resolves the fallback target for an action. It returns false when
// no route exists or a placeholder has no value.
func (rt *RouteTable) Expand(a action.Action, role string) (string, bool) {
	tmpl, ok := rt.routes[a.Type]
	if !ok {
		return "", false
	}

	complete := true
	target := placeholderRe.ReplaceAllStringFunc(tmpl, func(ph string) string {
		name := strings.Trim(ph, "{}")
		if name == "role" {
			if role == "" {
				complete = false
			}
			return role
		}
		v := a.StringParam(name)
		if v == "" {
			complete = false
		}
		return v
	})
	if !complete {
		return "", false
	}
	return target, true
}
