package gitstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

type Config struct {
	RepoPath    string
	AuthorName  string
	AuthorEmail string
}

// DocumentStore keeps documents in a git working copy and records every
// write as one commit. The blob hash of the file at HEAD is the revision.
type DocumentStore struct {
	mu     sync.Mutex
	root   string
	repo   *git.Repository
	author object.Signature
}

func NewDocumentStore(cfg Config) (*DocumentStore, error) {
	if cfg.RepoPath == "" {
		return nil, errors.New("git repository path is required")
	}

	repo, err := git.PlainOpen(cfg.RepoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if err := os.MkdirAll(cfg.RepoPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create repo directory: %w", err)
		}

		repo, err = git.PlainInit(cfg.RepoPath, false)
		if err != nil {
			return nil, fmt.Errorf("failed to init repo: %w", err)
		}

		slog.Info("initialized git document store", "path", cfg.RepoPath)
	} else if err != nil {
		return nil, fmt.Errorf("failed to open repo: %w", err)
	}

	return &DocumentStore{
		root: cfg.RepoPath,
		repo: repo,
		author: object.Signature{
			Name:  cfg.AuthorName,
			Email: cfg.AuthorEmail,
		},
	}, nil
}

func (s *DocumentStore) Get(ctx context.Context, p string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}

	content, revision, err := s.headFile(clean)
	if err != nil {
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			slog.ErrorContext(ctx, "failed to read document from git",
				"path", clean,
				"error", err,
			)
		}

		return nil, err
	}

	return &domain.Document{
		Path:     p,
		Content:  content,
		Revision: revision,
	}, nil
}

func (s *DocumentStore) Put(ctx context.Context, p string, content []byte, revision string, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clean, err := cleanPath(p)
	if err != nil {
		return "", err
	}

	current, currentRevision, err := s.headFile(clean)

	exists := err == nil
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		return "", err
	}

	switch {
	case exists && revision != currentRevision:
		return "", fmt.Errorf("%w: %s is at %s", domain.ErrRevisionConflict, clean, currentRevision)
	case !exists && revision != "":
		return "", fmt.Errorf("%w: %s does not exist", domain.ErrRevisionConflict, clean)
	}

	newRevision := plumbing.ComputeHash(plumbing.BlobObject, content).String()

	if exists && bytes.Equal(current, content) {
		return newRevision, nil
	}

	abs := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if _, err := wt.Add(clean); err != nil {
		return "", fmt.Errorf("%w: stage %s: %v", domain.ErrUpstreamFailure, clean, err)
	}

	if err := s.commit(ctx, wt, message); err != nil {
		return "", err
	}

	return newRevision, nil
}

func (s *DocumentStore) Delete(ctx context.Context, p string, revision string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clean, err := cleanPath(p)
	if err != nil {
		return err
	}

	_, currentRevision, err := s.headFile(clean)
	if err != nil {
		return err
	}

	if revision != currentRevision {
		return fmt.Errorf("%w: %s is at %s", domain.ErrRevisionConflict, clean, currentRevision)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if _, err := wt.Remove(clean); err != nil {
		return fmt.Errorf("%w: remove %s: %v", domain.ErrUpstreamFailure, clean, err)
	}

	return s.commit(ctx, wt, message)
}

func (s *DocumentStore) commit(ctx context.Context, wt *git.Worktree, message string) error {
	author := s.author
	author.When = time.Now()

	hash, err := wt.Commit(message, &git.CommitOptions{Author: &author})
	if err != nil {
		slog.ErrorContext(ctx, "git commit failed",
			"message", message,
			"error", err,
		)

		return fmt.Errorf("%w: commit: %v", domain.ErrUpstreamFailure, err)
	}

	slog.DebugContext(ctx, "git commit created",
		"commit", hash.String(),
		"message", message,
	)

	return nil
}

func (s *DocumentStore) headFile(p string) ([]byte, string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, "", domain.ErrDocumentNotFound
		}

		return nil, "", fmt.Errorf("%w: resolve HEAD: %v", domain.ErrUpstreamFailure, err)
	}

	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, "", fmt.Errorf("%w: load HEAD commit: %v", domain.ErrUpstreamFailure, err)
	}

	file, err := commit.File(p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, "", domain.ErrDocumentNotFound
		}

		return nil, "", fmt.Errorf("%w: read %s: %v", domain.ErrUpstreamFailure, p, err)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, "", fmt.Errorf("%w: read %s: %v", domain.ErrUpstreamFailure, p, err)
	}

	return []byte(contents), file.Hash.String(), nil
}

func cleanPath(p string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))

	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid document path %q", p)
	}

	return clean, nil
}

var _ domain.DocumentStore = (*DocumentStore)(nil)
