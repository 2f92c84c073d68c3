package formclient

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Lifecycle exposes the page signals the detector listens to. Each
// registration returns a function removing the listener.
type Lifecycle interface {
	OnBeforeUnload(fn func()) (remove func())
	OnVisibilityChange(fn func(hidden bool)) (remove func())
}

// Page is an in-process Lifecycle that fans signals out to its listeners.
type Page struct {
	mu         sync.Mutex
	nextID     int
	unload     map[int]func()
	visibility map[int]func(bool)
}

func NewPage() *Page {
	return &Page{
		unload:     make(map[int]func()),
		visibility: make(map[int]func(bool)),
	}
}

func (p *Page) OnBeforeUnload(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.unload[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.unload, id)
	}
}

func (p *Page) OnVisibilityChange(fn func(bool)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.visibility[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.visibility, id)
	}
}

// Unload fires the before-unload listeners.
func (p *Page) Unload() {
	p.mu.Lock()
	listeners := make([]func(), 0, len(p.unload))
	for _, fn := range p.unload {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// SetHidden fires the visibility listeners.
func (p *Page) SetHidden(hidden bool) {
	p.mu.Lock()
	listeners := make([]func(bool), 0, len(p.visibility))
	for _, fn := range p.visibility {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(hidden)
	}
}

// Listeners returns the number of registered listeners.
func (p *Page) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.unload) + len(p.visibility)
}

// AbandonmentPayload is the beacon body.
type AbandonmentPayload struct {
	SessionID   string         `json:"sessionId"`
	StartedAt   string         `json:"startedAt"`
	PartialData map[string]any `json:"partialData"`
}

// Detector sends the partially filled form when the page goes away before
// the form was submitted. Visibility is the primary trigger since unload is
// unreliable on mobile browsers; both are wired.
type Detector struct {
	tracker  *Tracker
	beacon   Beacon
	endpoint string
	state    func() FormState
	logger   *slog.Logger

	mu      sync.Mutex
	session *FormSession
}

func NewDetector(tracker *Tracker, beacon Beacon, endpoint string, state func() FormState, logger *slog.Logger) *Detector {
	return &Detector{
		tracker:  tracker,
		beacon:   beacon,
		endpoint: endpoint,
		state:    state,
		logger:   orDiscard(logger),
	}
}

// Mount initializes the session and registers both listeners. The returned
// function deregisters them and may be called more than once.
func (d *Detector) Mount(lifecycle Lifecycle) (unmount func()) {
	session := d.tracker.Init()
	if session == nil {
		d.logger.Warn("Form abandonment tracking unavailable")
	}
	d.mu.Lock()
	d.session = session
	d.mu.Unlock()

	removeUnload := lifecycle.OnBeforeUnload(func() { d.Trigger() })
	removeVisibility := lifecycle.OnVisibilityChange(func(hidden bool) {
		if hidden {
			d.Trigger()
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			removeUnload()
			removeVisibility()
		})
	}
}

// Trigger evaluates the guard and queues the beacon. It reports whether a
// beacon was queued.
func (d *Detector) Trigger() bool {
	d.mu.Lock()
	session := d.session
	d.mu.Unlock()

	state := d.state()
	if !state.HasStartedFilling() || d.tracker.IsSubmitted() || session == nil {
		return false
	}

	body, err := json.Marshal(AbandonmentPayload{
		SessionID:   session.SessionID,
		StartedAt:   session.StartedAt,
		PartialData: state.PartialData(),
	})
	if err != nil {
		d.logger.Warn("Could not encode abandonment payload", "error", err.Error())
		return false
	}
	return d.beacon.Send(d.endpoint, "application/json", body)
}
