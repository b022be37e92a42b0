// Package store persists catalog lookups and annotation checkpoints so
// interrupted batch runs resume without re-hitting remote services.
package store

import (
	"context"

	"github.com/oral-history-lab/transcript-cli/internal/model"
)

// Annotation kinds used as checkpoint namespaces.
const (
	KindGender = "gender"
	KindTopics = "topics"
)

// Store defines the local persistence interface.
type Store interface {
	// Catalog cache
	GetCachedRecord(ctx context.Context, rgNumber string) (*model.CatalogRecord, bool, error)
	SetCachedRecord(ctx context.Context, rgNumber, irn string, rec *model.CatalogRecord) error

	// Annotation checkpoints, namespaced by kind ("gender", "topics").
	SaveAnnotation(ctx context.Context, kind, filename string, payload any) error
	GetAnnotation(ctx context.Context, kind, filename string, out any) (bool, error)
	ListAnnotated(ctx context.Context, kind string) ([]string, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
