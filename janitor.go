// Package txcore's Janitor is a background, cron-scheduled sweep that
// drives VersionedRecord.Consolidate() on a schedule instead of leaving
// it to be called synchronously. It is adapted from the teacher
// repo's internal/storage/scheduler.go, which runs SQL jobs on a
// github.com/robfig/cron/v3 schedule against a catalog of registered
// jobs; here the "jobs" are VersionedRecords and the only action is
// Consolidate.
package txcore

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RecordSource supplies the set of records a Janitor sweep should try
// to consolidate. Implementations decide what "tracked" means — a whole
// table, a working set, or a fixed list for tests.
type RecordSource interface {
	Records() []VersionedRecord
}

// staticRecordSource is the trivial RecordSource used by tests and by
// callers with a fixed, small set of records.
type staticRecordSource []VersionedRecord

func (s staticRecordSource) Records() []VersionedRecord { return s }

// NewStaticRecordSource wraps a fixed slice of records as a RecordSource.
func NewStaticRecordSource(records ...VersionedRecord) RecordSource {
	return staticRecordSource(records)
}

// Janitor periodically calls Consolidate on every record a RecordSource
// reports. It never blocks a transaction: Consolidate's own contract —
// a no-op whenever a journal lock is outstanding — makes a sweep safe
// to run concurrently with live transactions, exactly as the teacher's
// cron-driven SQL jobs run independently of the MVCCManager's
// transaction locks.
type Janitor struct {
	source RecordSource
	cron   *cron.Cron

	mu            sync.Mutex
	lastSwept     int
	lastAttempted int
}

// NewJanitor builds a Janitor that sweeps source every interval. The
// Janitor does not start ticking until Start is called.
func NewJanitor(source RecordSource, interval time.Duration) (*Janitor, error) {
	j := &Janitor{
		source: source,
		cron:   cron.New(),
	}
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", interval), j.sweep); err != nil {
		return nil, fmt.Errorf("txcore: schedule janitor: %w", err)
	}
	return j, nil
}

// Start begins the cron loop in a background goroutine.
func (j *Janitor) Start() { j.cron.Start() }

// Stop halts the cron loop and waits for any in-flight sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// sweep calls Consolidate on every record the source reports.
func (j *Janitor) sweep() {
	records := j.source.Records()
	swept := 0
	for _, rec := range records {
		if rec.Consolidate() {
			swept++
		}
	}

	j.mu.Lock()
	j.lastSwept = swept
	j.lastAttempted = len(records)
	j.mu.Unlock()

	if swept > 0 {
		log.Printf("txcore: janitor consolidated %d/%d tracked records", swept, len(records))
	}
}

// Stats returns the outcome of the most recent sweep: how many records
// were attempted and how many Consolidate calls actually compacted
// something.
func (j *Janitor) Stats() (attempted, swept int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastAttempted, j.lastSwept
}
