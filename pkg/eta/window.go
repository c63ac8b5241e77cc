package eta

import "time"

// Window is a fixed-capacity FIFO buffer of completion timestamps.
// When full, inserting a new timestamp evicts the oldest one, so the
// window always holds the most recent completions in arrival order.
//
// A Window is not safe for concurrent use. The estimator that owns it
// assumes a single caller; see progress.Tracker for a synchronized
// wrapper.
type Window struct {
	stamps []time.Time
	head   int // index of the oldest element
	size   int
}

// NewWindow creates an empty window holding at most capacity
// timestamps. A capacity of zero is legal and yields a window that
// discards every insert. Negative capacities are treated as zero.
func NewWindow(capacity int) *Window {
	if capacity < 0 {
		capacity = 0
	}
	return &Window{stamps: make([]time.Time, capacity)}
}

// Insert appends t as the newest timestamp, evicting the oldest one
// first if the window is already at capacity.
func (w *Window) Insert(t time.Time) {
	if len(w.stamps) == 0 {
		return
	}
	if w.size == len(w.stamps) {
		w.stamps[w.head] = t
		w.head = (w.head + 1) % len(w.stamps)
		return
	}
	w.stamps[(w.head+w.size)%len(w.stamps)] = t
	w.size++
}

// Len returns the number of timestamps currently held.
func (w *Window) Len() int {
	return w.size
}

// Capacity returns the maximum number of timestamps the window holds.
func (w *Window) Capacity() int {
	return len(w.stamps)
}

// Items returns the held timestamps ordered oldest to newest. The
// returned slice is a copy; mutating it does not affect the window.
func (w *Window) Items() []time.Time {
	items := make([]time.Time, w.size)
	for i := 0; i < w.size; i++ {
		items[i] = w.stamps[(w.head+i)%len(w.stamps)]
	}
	return items
}
