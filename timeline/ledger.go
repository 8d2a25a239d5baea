package timeline

import "fmt"

// ArticleStatus is the generation lifecycle state of one entry's article.
type ArticleStatus string

const (
	StatusAbsent  ArticleStatus = "absent"
	StatusPending ArticleStatus = "pending"
	StatusReady   ArticleStatus = "ready"
	StatusFailed  ArticleStatus = "failed"
)

// Article is a fully generated newspaper-style article for one entry.
type Article struct {
	Headline  string   `json:"headline"`
	Dateline  string   `json:"dateline"`
	Lede      string   `json:"lede"`
	Body      []string `json:"body"`
	Sidebar   *Sidebar `json:"sidebar,omitempty"`
	PullQuote string   `json:"pull_quote,omitempty"`
}

// Sidebar is an optional boxed list attached to an article.
type Sidebar struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// ArticleState is the tagged per-entry generation state. Article is set only
// when Status is ready; Err only when failed.
type ArticleState struct {
	Status  ArticleStatus `json:"status"`
	Article *Article      `json:"article,omitempty"`
	Err     string        `json:"error,omitempty"`
}

// Ledger tracks article generation state per entry id. Not safe for concurrent
// use; the session controller serializes access.
type Ledger struct {
	states map[string]ArticleState
}

// NewLedger returns an empty ledger where every id reads as absent.
func NewLedger() *Ledger {
	return &Ledger{states: make(map[string]ArticleState)}
}

// Get returns the state for id, defaulting to absent.
func (l *Ledger) Get(id string) ArticleState {
	if st, ok := l.states[id]; ok {
		return st
	}
	return ArticleState{Status: StatusAbsent}
}

// Begin transitions id to pending and reports whether the transition happened.
// A pending entry must not issue a second in-flight request and a ready entry
// must not regenerate, so both return false. A failed entry is retryable.
func (l *Ledger) Begin(id string) bool {
	switch l.Get(id).Status {
	case StatusPending, StatusReady:
		return false
	}
	l.states[id] = ArticleState{Status: StatusPending}
	return true
}

// Finish records a completed article for id.
func (l *Ledger) Finish(id string, art Article) {
	l.states[id] = ArticleState{Status: StatusReady, Article: &art}
}

// Fail records a failure for id. Error values render their message; anything
// else renders its string form.
func (l *Ledger) Fail(id string, cause any) {
	l.states[id] = ArticleState{Status: StatusFailed, Err: RenderError(cause)}
}

// SetReady installs an already-completed article, used when restoring a
// session from an imported bundle.
func (l *Ledger) SetReady(id string, art Article) {
	l.Finish(id, art)
}

// Ready returns a copy of every completed article keyed by entry id.
func (l *Ledger) Ready() map[string]Article {
	out := make(map[string]Article)
	for id, st := range l.states {
		if st.Status == StatusReady && st.Article != nil {
			out[id] = *st.Article
		}
	}
	return out
}

// States returns a copy of all non-absent states keyed by entry id.
func (l *Ledger) States() map[string]ArticleState {
	out := make(map[string]ArticleState, len(l.states))
	for id, st := range l.states {
		out[id] = st
	}
	return out
}

// RenderError produces the human-readable message for a failure cause.
func RenderError(cause any) string {
	if err, ok := cause.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(cause)
}
