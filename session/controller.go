// Package session owns the single working session: the seed event, the
// current timeline, per-entry article and interpolation state, and the four
// user intents that mutate them. All shared state lives behind one controller
// mutex; the mutex is never held across a model call, and every completion
// re-derives current positions before touching the sequence.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"counterfactual_press/bundle"
	"counterfactual_press/generator"
	"counterfactual_press/timeline"
)

// InterpState is the lifecycle state of one anchor's interpolation request.
// Unlike articles there is no persistent done state: the inserted entries
// themselves are the record of success, so completion resolves back to idle.
type InterpState string

const (
	InterpIdle    InterpState = "idle"
	InterpPending InterpState = "pending"
	InterpFailed  InterpState = "failed"
)

// InterpStatus pairs an interpolation state with its failure message.
type InterpStatus struct {
	State InterpState `json:"state"`
	Err   string      `json:"error,omitempty"`
}

// KeyFunc supplies the current API credential. An empty return means no
// credential is available.
type KeyFunc func() string

// Controller coordinates the generation client, timeline store, and article
// ledger in response to user intents. Safe for concurrent use.
type Controller struct {
	client generator.Client
	key    KeyFunc
	log    *slog.Logger
	now    func() time.Time

	mu              sync.Mutex
	seed            string
	summary         string
	store           *timeline.Store
	ledger          *timeline.Ledger
	interp          map[string]InterpStatus
	activeEntry     string
	sessionErr      string
	timelinePending bool
	generation      uint64
}

// NewController builds a controller around a generation client and credential
// source. The session starts empty.
func NewController(client generator.Client, key KeyFunc, log *slog.Logger) (*Controller, error) {
	if client == nil {
		return nil, fmt.Errorf("generation client is required")
	}
	if key == nil {
		key = func() string { return "" }
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		client: client,
		key:    key,
		log:    log,
		now:    time.Now,
		store:  timeline.NewStore(),
		ledger: timeline.NewLedger(),
		interp: make(map[string]InterpStatus),
	}, nil
}

// Snapshot is a copy of the session visible to callers.
type Snapshot struct {
	SeedEvent       string
	SeedSummary     string
	Timeline        *timeline.Timeline
	Articles        map[string]timeline.ArticleState
	Interpolations  map[string]InterpStatus
	ActiveEntry     string
	Err             string
	TimelinePending bool
}

// GuidingText returns the display form of the timeline's guiding principle,
// falling back to the first entry's summary, then to nothing.
func (s Snapshot) GuidingText() string {
	if s.Timeline == nil {
		return ""
	}
	if text := timeline.DisplayPrinciple(s.Timeline.Principle); text != "" {
		return text
	}
	if len(s.Timeline.Entries) > 0 {
		return s.Timeline.Entries[0].Summary
	}
	return ""
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		SeedEvent:       c.seed,
		SeedSummary:     c.summary,
		Articles:        c.ledger.States(),
		Interpolations:  make(map[string]InterpStatus, len(c.interp)),
		ActiveEntry:     c.activeEntry,
		Err:             c.sessionErr,
		TimelinePending: c.timelinePending,
	}
	if tl, ok := c.store.Timeline(); ok {
		snap.Timeline = &tl
	}
	for id, st := range c.interp {
		snap.Interpolations[id] = st
	}
	return snap
}

// ArticleState returns the generation state for one entry.
func (c *Controller) ArticleState(id string) timeline.ArticleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Get(id)
}

// SetActiveEntry records which entry the user is viewing. Cleared whenever the
// timeline is replaced.
func (c *Controller) SetActiveEntry(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != "" && c.store.IndexOf(id) < 0 {
		return fmt.Errorf("%w: unknown entry %q", ErrValidation, id)
	}
	c.activeEntry = id
	return nil
}

// GenerateTimeline replaces the session with a freshly generated timeline for
// the seed event. A second call while one is pending is a no-op. On failure
// the session-wide error is set and the previous timeline is kept.
func (c *Controller) GenerateTimeline(ctx context.Context, seed string) error {
	normalized := collapse(seed)
	if normalized == "" {
		return fmt.Errorf("%w: seed event text is empty", ErrValidation)
	}
	key := c.key()
	if key == "" {
		return fmt.Errorf("%w: missing API credential", ErrValidation)
	}

	c.mu.Lock()
	if c.timelinePending {
		c.mu.Unlock()
		return nil
	}
	c.timelinePending = true
	c.mu.Unlock()

	tl, err := c.client.GenerateTimeline(ctx, key, normalized)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.timelinePending = false
	if err != nil {
		c.sessionErr = timeline.RenderError(err)
		return err
	}
	c.install(seed, tl, "")
	return nil
}

// install replaces the timeline wholesale and clears every piece of derived
// state keyed by the old generation's entry ids.
func (c *Controller) install(seed string, tl timeline.Timeline, summary string) {
	c.seed = seed
	c.store.Replace(tl)
	c.ledger = timeline.NewLedger()
	c.interp = make(map[string]InterpStatus)
	c.activeEntry = ""
	c.sessionErr = ""
	c.generation++
	if summary == "" {
		summary = DeriveSeedSummary(seed, tl)
	}
	c.summary = summary
}

// RequestArticle generates the article for one entry. While a request for the
// same entry is pending, or the article is already ready, the call is a no-op
// that never reaches the generation client. A failed entry retries.
func (c *Controller) RequestArticle(ctx context.Context, id string) error {
	key := c.key()
	if key == "" {
		return fmt.Errorf("%w: missing API credential", ErrValidation)
	}

	c.mu.Lock()
	idx := c.store.IndexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: unknown entry %q", ErrValidation, id)
	}
	if !c.ledger.Begin(id) {
		c.mu.Unlock()
		return nil
	}
	entry, _ := c.store.Entry(idx)
	tl, _ := c.store.Timeline()
	seed := c.seed
	gen := c.generation
	c.mu.Unlock()

	art, err := c.client.GenerateArticle(ctx, key, seed, entry, tl)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.log.Info("discarding stale article result",
			slog.String("entry", id), slog.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		c.ledger.Fail(id, err)
		return err
	}
	c.ledger.Finish(id, art)
	return nil
}

// Interpolate requests bridging entries around the anchor entry and merges
// them immediately after the anchor's position at completion time. Neighbor
// and insertion positions are re-derived from the live sequence, never cached,
// so interpolations completing out of order land correctly. Zero proposed
// entries is a successful no-op.
func (c *Controller) Interpolate(ctx context.Context, id string) error {
	key := c.key()
	if key == "" {
		return fmt.Errorf("%w: missing API credential", ErrValidation)
	}

	c.mu.Lock()
	idx := c.store.IndexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: unknown entry %q", ErrValidation, id)
	}
	if c.interp[id].State == InterpPending {
		c.mu.Unlock()
		return nil
	}
	c.interp[id] = InterpStatus{State: InterpPending}
	anchor, _ := c.store.Entry(idx)
	prev, next := c.store.Neighbors(idx)
	tl, _ := c.store.Timeline()
	seed := c.seed
	gen := c.generation
	c.mu.Unlock()

	entries, err := c.client.GenerateInterpolation(ctx, key, seed, generator.InterpolationRequest{
		Previous: prev,
		Anchor:   anchor,
		Next:     next,
		Timeline: tl,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.log.Info("discarding stale interpolation result",
			slog.String("anchor", id), slog.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		c.interp[id] = InterpStatus{State: InterpFailed, Err: timeline.RenderError(err)}
		return err
	}
	delete(c.interp, id)
	if len(entries) == 0 {
		return nil
	}
	cur := c.store.IndexOf(id)
	if cur < 0 {
		c.log.Warn("interpolation anchor no longer present", slog.String("anchor", id))
		return nil
	}
	inserted := c.store.Insert(entries, cur)
	c.log.Info("merged interpolation",
		slog.String("anchor", id),
		slog.Int("proposed", len(entries)),
		slog.Int("inserted", inserted))
	return nil
}

// InterpolationStatus returns the interpolation state for one anchor.
func (c *Controller) InterpolationStatus(id string) InterpStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.interp[id]; ok {
		return st
	}
	return InterpStatus{State: InterpIdle}
}

// Export builds a bundle document from the current session. Only ready
// articles are carried.
func (c *Controller) Export() (bundle.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tl, ok := c.store.Timeline()
	if !ok {
		return bundle.Document{}, fmt.Errorf("%w: no timeline to export", ErrValidation)
	}
	return bundle.Encode(c.seed, c.summary, tl, c.ledger, c.now()), nil
}

// Import replaces the session from a bundle document. On any decode failure
// the previous session is left untouched. Every article in the document
// becomes ready; every other entry starts absent.
func (c *Controller) Import(data []byte) error {
	doc, err := bundle.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImport, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	summary := doc.SeedSummary
	if summary == "" {
		summary = DeriveSeedSummary(doc.SeedEvent, doc.Timeline)
	}
	c.install(doc.SeedEvent, doc.Timeline, summary)
	for id, art := range doc.Articles {
		c.ledger.SetReady(id, art)
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
