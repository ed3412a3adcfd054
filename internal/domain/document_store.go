package domain

import (
	"context"
)

type Document struct {
	Path     string
	Content  []byte
	Revision string
}

// DocumentStore is a versioned blob host addressed by path.
//
// Get returns ErrDocumentNotFound for a missing path. Put creates the
// document when revision is empty and overwrites it otherwise; a revision
// that is not the current one fails with ErrRevisionConflict. Delete always
// requires the current revision.
type DocumentStore interface {
	Get(ctx context.Context, path string) (*Document, error)
	Put(ctx context.Context, path string, content []byte, revision string, message string) (string, error)
	Delete(ctx context.Context, path string, revision string, message string) error
}
