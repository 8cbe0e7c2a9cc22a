// Package traffic polls the running core's stats API and exposes the live
// counters.
package traffic

import "sync"

// Info is the shared traffic cell. Counters reset whenever the core
// starts.
type Info struct {
	mu       sync.Mutex
	upload   int64
	download int64
}

// NewInfo creates a zeroed cell.
func NewInfo() *Info {
	return &Info{}
}

// Snapshot returns the counters as of the last poll.
func (i *Info) Snapshot() (upload, download int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.upload, i.download
}

func (i *Info) set(upload, download int64) {
	i.mu.Lock()
	i.upload = upload
	i.download = download
	i.mu.Unlock()
}

// Reset zeroes both counters.
func (i *Info) Reset() {
	i.set(0, 0)
}
