package testutil

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"sort"
	"sync"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

// Commit is one recorded write against a MemoryDocumentStore.
type Commit struct {
	Op      string
	Path    string
	Message string
}

// MemoryDocumentStore is an in-process domain.DocumentStore that enforces
// revisions the way a real versioned store does.
type MemoryDocumentStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	commits []Commit

	// Errors injected per path, returned before any state change.
	GetErrors    map[string]error
	PutErrors    map[string]error
	DeleteErrors map[string]error
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		docs:         make(map[string][]byte),
		GetErrors:    make(map[string]error),
		PutErrors:    make(map[string]error),
		DeleteErrors: make(map[string]error),
	}
}

func revisionOf(content []byte) string {
	sum := sha1.Sum(content) //nolint:gosec

	return hex.EncodeToString(sum[:])
}

func (s *MemoryDocumentStore) Get(_ context.Context, path string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.GetErrors[path]; err != nil {
		return nil, err
	}

	content, ok := s.docs[path]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	return &domain.Document{
		Path:     path,
		Content:  append([]byte(nil), content...),
		Revision: revisionOf(content),
	}, nil
}

func (s *MemoryDocumentStore) Put(_ context.Context, path string, content []byte, revision string, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.PutErrors[path]; err != nil {
		return "", err
	}

	current, exists := s.docs[path]

	switch {
	case exists && revision == "":
		return "", domain.ErrRevisionConflict
	case exists && revision != revisionOf(current):
		return "", domain.ErrRevisionConflict
	case !exists && revision != "":
		return "", domain.ErrRevisionConflict
	}

	op := "create"
	if exists {
		op = "update"
	}

	s.docs[path] = append([]byte(nil), content...)
	s.commits = append(s.commits, Commit{Op: op, Path: path, Message: message})

	return revisionOf(content), nil
}

func (s *MemoryDocumentStore) Delete(_ context.Context, path string, revision string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.DeleteErrors[path]; err != nil {
		return err
	}

	current, exists := s.docs[path]
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if revision != revisionOf(current) {
		return domain.ErrRevisionConflict
	}

	delete(s.docs, path)
	s.commits = append(s.commits, Commit{Op: "delete", Path: path, Message: message})

	return nil
}

// Seed writes a document without recording a commit.
func (s *MemoryDocumentStore) Seed(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[path] = append([]byte(nil), content...)
}

// Paths returns the stored paths in sorted order.
func (s *MemoryDocumentStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.docs))
	for p := range s.docs {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

func (s *MemoryDocumentStore) Content(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.docs[path]

	return c, ok
}

func (s *MemoryDocumentStore) Commits() []Commit {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Commit(nil), s.commits...)
}

var _ domain.DocumentStore = (*MemoryDocumentStore)(nil)
