package overlay

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grammar_enhancer/diff"
)

const DefaultToastDuration = 3 * time.Second

type reviewSlot struct {
	overlay  Overlay
	onAccept func()
	onCancel func()
}

// Manager enforces the single review slot. Toasts are tracked separately and
// may coexist with a review.
type Manager struct {
	doc        Document
	toastDelay time.Duration
	logger     *zap.Logger

	mu     sync.Mutex
	review *reviewSlot
	toasts map[string]*time.Timer
	closed bool
}

type Option func(*Manager)

func WithToastDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.toastDelay = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewManager(doc Document, opts ...Option) *Manager {
	m := &Manager{
		doc:        doc,
		toastDelay: DefaultToastDuration,
		logger:     zap.NewNop(),
		toasts:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ShowReview disposes any open review before mounting the new one and
// returns the new overlay id.
func (m *Manager) ShowReview(original, improved string, onAccept, onCancel func()) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ""
	}
	if m.review != nil {
		m.doc.Unmount(m.review.overlay.ID)
		m.review = nil
	}
	o := Overlay{
		ID:   uuid.NewString(),
		Kind: KindReview,
		Review: &Review{
			Original: original,
			Improved: improved,
			Segments: diff.Words(original, improved),
		},
	}
	m.review = &reviewSlot{overlay: o, onAccept: onAccept, onCancel: onCancel}
	m.doc.Mount(o)
	m.logger.Debug("review mounted", zap.String("id", o.ID))
	return o.ID
}

// ActiveReview returns the open review, if any.
func (m *Manager) ActiveReview() (Overlay, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.review == nil {
		return Overlay{}, false
	}
	return m.review.overlay, true
}

// Accept closes review id and runs its accept callback. It reports false when
// id is no longer the open review, so a callback never fires twice.
func (m *Manager) Accept(id string) bool {
	slot := m.take(id)
	if slot == nil {
		return false
	}
	if slot.onAccept != nil {
		slot.onAccept()
	}
	return true
}

// Cancel closes review id and runs its cancel callback.
func (m *Manager) Cancel(id string) bool {
	slot := m.take(id)
	if slot == nil {
		return false
	}
	if slot.onCancel != nil {
		slot.onCancel()
	}
	return true
}

// CloseReview removes the open review without running callbacks.
func (m *Manager) CloseReview() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.review != nil {
		m.doc.Unmount(m.review.overlay.ID)
		m.review = nil
	}
}

func (m *Manager) take(id string) *reviewSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.review == nil || m.review.overlay.ID != id {
		return nil
	}
	slot := m.review
	m.review = nil
	m.doc.Unmount(id)
	return slot
}

// Notify mounts a toast that removes itself after the toast duration.
func (m *Manager) Notify(message string, tone Tone) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ""
	}
	o := Overlay{
		ID:    uuid.NewString(),
		Kind:  KindToast,
		Toast: &Toast{Message: message, Tone: tone},
	}
	m.doc.Mount(o)
	m.toasts[o.ID] = time.AfterFunc(m.toastDelay, func() { m.dismiss(o.ID) })
	m.logger.Debug("toast mounted", zap.String("id", o.ID), zap.String("tone", string(tone)))
	return o.ID
}

func (m *Manager) dismiss(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.toasts[id]; !ok {
		return
	}
	delete(m.toasts, id)
	m.doc.Unmount(id)
}

// Close tears everything down; later calls are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for id, t := range m.toasts {
		t.Stop()
		m.doc.Unmount(id)
	}
	m.toasts = map[string]*time.Timer{}
	if m.review != nil {
		m.doc.Unmount(m.review.overlay.ID)
		m.review = nil
	}
}
