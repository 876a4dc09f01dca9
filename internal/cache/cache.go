// Package cache holds the single-slot render result of each change entry.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/render"
)

// State of a result slot
type State int

const (
	StateProcessing State = iota // A run is registered and has not published yet
	StateReady                   // The latest run finished with every stage applied
	StateDegraded                // The latest run finished with skipped stages
)

func (s State) String() string {
	switch s {
	case StateProcessing:
		return "processing"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Slot is the stored render state of one change entry
type Slot struct {
	Generation  uint64
	Fingerprint string
	State       State
	Result      render.Result // Zero while processing
}

// Store defines the interface for render result stores
type Store interface {
	// Begin registers a run for the entry. started is false when a run for
	// the same input is already registered or finished.
	Begin(id, fingerprint string) (gen uint64, started bool)
	// Publish stores the result if gen is still the entry's current generation
	Publish(id string, gen uint64, result render.Result) bool
	// Abandon drops the slot of a run that will never publish
	Abandon(id string, gen uint64)
	Get(id string) (Slot, bool)
}

// Fingerprint identifies the input of a render run: the entry's document
// and the repository its references resolve against
func Fingerprint(doc *document.Node, repoURL string) string {
	h := sha256.New()
	h.Write([]byte(document.Fingerprint(doc)))
	h.Write([]byte{0})
	h.Write([]byte(repoURL))
	return "releasediff:v1:" + hex.EncodeToString(h.Sum(nil))
}
