// Package store defines the record source interface and implementations.
// The chat and report layers treat it as an already-loaded ordered
// sequence of records per dataset.
package store

import (
	"context"

	"github.com/minasamy417/resultsboard/domain"
)

// Store defines the interface for the record source.
type Store interface {
	// Record operations
	CreateRecord(ctx context.Context, datasetID string, record *domain.Record) error
	GetRecords(ctx context.Context, datasetID string) ([]domain.Record, error)

	// Behavioral note operations
	CreateBehavioralNote(ctx context.Context, datasetID string, note *domain.BehavioralNote) error
	GetBehavioralNotes(ctx context.Context, datasetID string) (domain.BehavioralSet, error)

	// Lifecycle
	Close() error
}
