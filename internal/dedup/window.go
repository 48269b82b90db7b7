package dedup

// DefaultCapacity bounds the window when no capacity is given.
const DefaultCapacity = 1000

// Window is a bounded, insertion-ordered record of previously observed
// event identifiers.
type Window struct {
	capacity int
	seen     map[string]struct{}
	order    []string // FIFO eviction order, oldest first
}

// NewWindow creates a window holding at most capacity identifiers.
// A non-positive capacity falls back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// IsNew reports whether id has not been admitted and retained.
func (w *Window) IsNew(id string) bool {
	_, ok := w.seen[id]
	return !ok
}

// Admit inserts id if absent, evicting the oldest entries when the
// insertion pushes the window above capacity. Callers filter a batch with
// IsNew first, then Admit accepted ids in batch order: batch order decides
// eviction order for ids admitted within one cycle.
func (w *Window) Admit(id string) {
	if _, ok := w.seen[id]; ok {
		return
	}

	w.seen[id] = struct{}{}
	w.order = append(w.order, id)

	for len(w.order) > w.capacity {
		oldest := w.order[0]
		w.order = w.order[1:]
		delete(w.seen, oldest)
	}
}

// Len returns the number of identifiers currently retained.
func (w *Window) Len() int {
	return len(w.order)
}

// Oldest returns the retained identifiers oldest-first. The returned slice
// is a copy.
func (w *Window) Oldest() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}
