package overlay

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memDoc struct {
	mu       sync.Mutex
	mounted  []Overlay
	unmounts int
}

func (d *memDoc) Mount(o Overlay) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted = append(d.mounted, o)
}

func (d *memDoc) Unmount(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, o := range d.mounted {
		if o.ID == id {
			d.mounted = append(d.mounted[:i], d.mounted[i+1:]...)
			d.unmounts++
			return
		}
	}
}

func (d *memDoc) count(kind Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, o := range d.mounted {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

func TestShowReview_ReplacesPrevious(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc)

	first := m.ShowReview("a", "A", nil, nil)
	second := m.ShowReview("b", "B", nil, nil)

	require.NotEqual(t, first, second)
	require.Equal(t, 1, doc.count(KindReview), "exactly one review overlay may exist")
	active, ok := m.ActiveReview()
	require.True(t, ok)
	require.Equal(t, second, active.ID)
	require.Equal(t, "b", active.Review.Original)
	require.Equal(t, "B", active.Review.Improved)
	require.NotEmpty(t, active.Review.Segments)
	require.False(t, m.Accept(first), "stale review id must not fire callbacks")
}

func TestAccept_RunsOnceAndCloses(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc)
	accepted, cancelled := 0, 0
	id := m.ShowReview("x", "y", func() { accepted++ }, func() { cancelled++ })

	require.True(t, m.Accept(id))
	require.False(t, m.Accept(id))
	require.False(t, m.Cancel(id))
	require.Equal(t, 1, accepted)
	require.Zero(t, cancelled)
	require.Zero(t, doc.count(KindReview))
}

func TestCancel_ClosesWithoutAccept(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc)
	accepted, cancelled := 0, 0
	id := m.ShowReview("x", "y", func() { accepted++ }, func() { cancelled++ })

	require.True(t, m.Cancel(id))
	require.Zero(t, accepted)
	require.Equal(t, 1, cancelled)
	_, ok := m.ActiveReview()
	require.False(t, ok)
}

func TestAccept_CallbackMayOpenToast(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc)
	id := m.ShowReview("x", "y", func() { m.Notify("copied", ToneSuccess) }, nil)
	require.True(t, m.Accept(id))
	require.Equal(t, 1, doc.count(KindToast))
}

func TestNotify_AutoDismiss(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc, WithToastDuration(20*time.Millisecond))

	m.Notify("one", ToneSuccess)
	m.Notify("two", ToneError)
	require.Equal(t, 2, doc.count(KindToast), "toasts are not deduplicated")

	require.Eventually(t, func() bool { return doc.count(KindToast) == 0 }, time.Second, 5*time.Millisecond)
}

func TestNotify_CoexistsWithReview(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc, WithToastDuration(time.Hour))
	m.ShowReview("x", "y", nil, nil)
	m.Notify("hello", ToneSuccess)
	require.Equal(t, 1, doc.count(KindReview))
	require.Equal(t, 1, doc.count(KindToast))
	m.Close()
}

func TestClose_UnmountsEverything(t *testing.T) {
	doc := &memDoc{}
	m := NewManager(doc, WithToastDuration(time.Hour))
	m.ShowReview("x", "y", nil, nil)
	m.Notify("a", ToneSuccess)

	m.Close()
	m.Close()

	require.Zero(t, doc.count(KindReview))
	require.Zero(t, doc.count(KindToast))
	require.Empty(t, m.ShowReview("x", "y", nil, nil))
	require.Empty(t, m.Notify("late", ToneError))
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "review", KindReview.String())
	require.Equal(t, "toast", KindToast.String())
	require.Equal(t, "unknown", Kind(0).String())
}
