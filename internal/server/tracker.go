package server

import "sync"

// progressErr marks a conversion that failed.
const progressErr = -1

// Tracker keeps per-file upload and conversion progress, mirroring what the
// progress endpoints expose.
type Tracker struct {
	mu      sync.RWMutex
	upload  map[string]float64
	convert map[string]float64
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		upload:  make(map[string]float64),
		convert: make(map[string]float64),
	}
}

// SetUpload records upload progress for a file.
func (t *Tracker) SetUpload(name string, percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.upload[name] = percent
}

// Upload returns the upload progress for a file, if any.
func (t *Tracker) Upload(name string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	percent, ok := t.upload[name]
	return percent, ok
}

// SetConvert records conversion progress for a file. progressErr marks a
// failed conversion.
func (t *Tracker) SetConvert(name string, percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.convert[name] = percent
}

// Convert returns the conversion progress for a file, if any.
func (t *Tracker) Convert(name string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	percent, ok := t.convert[name]
	return percent, ok
}

// Clear drops all recorded progress.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.upload = make(map[string]float64)
	t.convert = make(map[string]float64)
}
