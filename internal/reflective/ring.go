package reflective

// #region ring
// snapshotRing is a fixed-capacity FIFO over Snapshots. When full, the
// oldest entry is overwritten in place; no reallocation, no reordering.
type snapshotRing struct {
	buf  []Snapshot
	head int // index of the oldest entry
	size int
}

func newSnapshotRing(capacity int) *snapshotRing {
	return &snapshotRing{buf: make([]Snapshot, capacity)}
}

// push appends a snapshot, evicting the oldest when full.
func (r *snapshotRing) push(s Snapshot) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = s
		r.size++
		return
	}
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
}

func (r *snapshotRing) len() int {
	return r.size
}

// last returns up to n most recent snapshots in chronological order.
func (r *snapshotRing) last(n int) []Snapshot {
	if n > r.size {
		n = r.size
	}
	out := make([]Snapshot, n)
	start := r.size - n
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head+start+i)%len(r.buf)]
	}
	return out
}

// #endregion ring
