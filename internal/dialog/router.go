package dialog

import (
	"context"
	"strings"
)

// Message is an inbound chat message, stripped of any transport detail.
type Message struct {
	ChatID int64
	UserID int64
	Text   string
}

// HandlerFunc handles a message in the given session. It mutates s to move the
// dialogue forward and returns the replies to send.
type HandlerFunc func(ctx context.Context, s *Session, msg Message) ([]Reply, error)

// Predicate decides whether a route accepts the message text.
type Predicate func(text string) bool

// Exact matches any of the labels verbatim.
func Exact(labels ...string) Predicate {
	return func(text string) bool {
		for _, l := range labels {
			if text == l {
				return true
			}
		}
		return false
	}
}

// Fold matches any of the labels ignoring case and surrounding spaces.
func Fold(labels ...string) Predicate {
	return func(text string) bool {
		text = strings.TrimSpace(text)
		for _, l := range labels {
			if strings.EqualFold(text, l) {
				return true
			}
		}
		return false
	}
}

// AnyText accepts every message.
func AnyText(string) bool { return true }

type route struct {
	match  Predicate
	handle HandlerFunc
}

// Router binds handlers to (state, predicate) pairs. Routes registered for
// StateAny are tried first, then the routes of the current state, each group
// in registration order. The first match wins.
type Router struct {
	wildcard []route
	byState  map[State][]route
}

func NewRouter() *Router {
	return &Router{byState: make(map[State][]route)}
}

func (r *Router) Handle(state State, match Predicate, h HandlerFunc) {
	rt := route{match: match, handle: h}
	if state == StateAny {
		r.wildcard = append(r.wildcard, rt)
		return
	}
	r.byState[state] = append(r.byState[state], rt)
}

// Match returns the handler for text in state, if any route accepts it.
func (r *Router) Match(state State, text string) (HandlerFunc, bool) {
	for _, rt := range r.wildcard {
		if rt.match(text) {
			return rt.handle, true
		}
	}
	for _, rt := range r.byState[state] {
		if rt.match(text) {
			return rt.handle, true
		}
	}
	return nil, false
}
