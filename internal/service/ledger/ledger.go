// internal/service/ledger/ledger.go

package ledger

import (
	"sync"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// Ledger tracks previously-seen canonical URLs across runs and gates
// reprocessing. It is the only piece of truly shared mutable state in
// the pipeline: the seen-set grows monotonically during a run, entries
// are never removed once committed, and all mutation happens behind a
// single-writer lock so CheckAndReserve+Commit for a given URL is atomic
// with respect to concurrent term workers.
type Ledger struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	committed map[string]struct{}
	prior     []post.PostRecord
	added     []post.PostRecord
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		seen:      make(map[string]struct{}),
		committed: make(map[string]struct{}),
	}
}

// Load seeds the seen-set from all canonical URLs present in previously
// persisted records.
func (l *Ledger) Load(existing []post.PostRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prior = append(l.prior[:0], existing...)
	for _, r := range existing {
		if r.CanonicalURL != "" {
			l.seen[r.CanonicalURL] = struct{}{}
		}
	}
}

// CheckAndReserve atomically claims a canonical URL. It returns true if
// the URL has not been seen before, in which case the caller owns it and
// must eventually Commit (on success) or Release (on failure). It must
// be called before any expensive enrichment is performed for a post.
func (l *Ledger) CheckAndReserve(canonicalURL string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[canonicalURL]; ok {
		return false
	}
	l.seen[canonicalURL] = struct{}{}
	return true
}

// Release gives back a reservation after a failed post so a retried run
// (or a later capture in this run) can reprocess it. Committed URLs are
// never released.
func (l *Ledger) Release(canonicalURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.committed[canonicalURL]; ok {
		return
	}
	delete(l.seen, canonicalURL)
}

// Commit records a fully persisted post. The URL stays in the seen-set
// permanently.
func (l *Ledger) Commit(record post.PostRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen[record.CanonicalURL] = struct{}{}
	l.committed[record.CanonicalURL] = struct{}{}
	l.added = append(l.added, record)
}

// Seen reports whether a canonical URL is currently reserved or
// committed.
func (l *Ledger) Seen(canonicalURL string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[canonicalURL]
	return ok
}

// NewCount returns the number of records committed during this run.
func (l *Ledger) NewCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.added)
}

// Flush merges newly committed records with the previously loaded ones,
// de-duplicating by canonical URL (last seen wins), and returns the
// merged ordered collection for durable persistence.
func (l *Ledger) Flush() []post.PostRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make([]post.PostRecord, 0, len(l.prior)+len(l.added))
	index := make(map[string]int, len(l.prior)+len(l.added))

	for _, r := range l.prior {
		if i, ok := index[r.CanonicalURL]; ok {
			merged[i] = r
			continue
		}
		index[r.CanonicalURL] = len(merged)
		merged = append(merged, r)
	}
	for _, r := range l.added {
		if i, ok := index[r.CanonicalURL]; ok {
			merged[i] = r
			continue
		}
		index[r.CanonicalURL] = len(merged)
		merged = append(merged, r)
	}

	return merged
}
