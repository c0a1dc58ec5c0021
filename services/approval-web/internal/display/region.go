// Package display holds the single result region shared by every submission.
package display

import (
	"sync"

	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/observability"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/views"
)

// Region is the shared display region. Whichever submission completes last
// overwrites it; there is no ordering between concurrent submissions.
type Region struct {
	mu    sync.RWMutex
	panel views.Panel
}

// NewRegion returns a hidden, empty region.
func NewRegion() *Region {
	return &Region{}
}

// Show replaces the region content and makes it visible.
func (r *Region) Show(p views.Panel) {
	p.Visible = true
	r.mu.Lock()
	r.panel = p
	r.mu.Unlock()
	observability.DisplayRegionWrites.WithLabelValues(string(p.Kind)).Inc()
}

// Snapshot returns the current content.
func (r *Region) Snapshot() views.Panel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.panel
}
