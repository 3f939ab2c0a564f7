// Package recorder persists completed simulation runs so the reporting
// layer can query them later. The simulation core never depends on it;
// recording happens after a batch completes.
package recorder

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pensim/plan-comparator/internal/calculation"
	"github.com/pensim/plan-comparator/internal/domain"
)

// RunRecord is one completed batch plus the configuration that produced it.
type RunRecord struct {
	ID        string
	CreatedAt time.Time
	Config    *domain.Configuration
	Result    *calculation.RunResult
}

// Recorder persists run records.
type Recorder interface {
	RecordRun(rec RunRecord) error
	Close() error
}

// NewRunID returns a lexicographically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Noop discards everything. Used when no journal is configured.
type Noop struct{}

func (Noop) RecordRun(RunRecord) error { return nil }
func (Noop) Close() error              { return nil }
