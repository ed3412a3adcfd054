package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v69/github"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

type Config struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
	// BaseURL overrides the public API endpoint (GitHub Enterprise, tests).
	BaseURL string
}

// DocumentStore keeps documents as files of one repository. The blob sha
// returned by the contents API is the revision token.
type DocumentStore struct {
	client *gh.Client
	owner  string
	repo   string
	branch string
}

func NewDocumentStore(cfg Config) (*DocumentStore, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("github owner and repo are required")
	}

	client := gh.NewClient(nil).WithAuthToken(cfg.Token)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}

		client.BaseURL = u
	}

	return &DocumentStore{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}, nil
}

func (s *DocumentStore) Get(ctx context.Context, path string) (*domain.Document, error) {
	var opts *gh.RepositoryContentGetOptions
	if s.branch != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: s.branch}
	}

	file, dir, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		return nil, s.mapError(ctx, "get", path, err)
	}

	if file == nil || dir != nil {
		return nil, fmt.Errorf("%w: %s is not a file", domain.ErrUpstreamFailure, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrUpstreamFailure, path, err)
	}

	return &domain.Document{
		Path:     path,
		Content:  []byte(content),
		Revision: file.GetSHA(),
	}, nil
}

func (s *DocumentStore) Put(ctx context.Context, path string, content []byte, revision string, message string) (string, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
	}

	if s.branch != "" {
		opts.Branch = gh.String(s.branch)
	}

	var (
		res *gh.RepositoryContentResponse
		err error
	)

	if revision == "" {
		res, _, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts)
	} else {
		opts.SHA = gh.String(revision)
		res, _, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
	}

	if err != nil {
		return "", s.mapError(ctx, "put", path, err)
	}

	slog.DebugContext(ctx, "github document written",
		"path", path,
		"message", message,
	)

	if res == nil || res.Content == nil {
		return "", nil
	}

	return res.Content.GetSHA(), nil
}

func (s *DocumentStore) Delete(ctx context.Context, path string, revision string, message string) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		SHA:     gh.String(revision),
	}

	if s.branch != "" {
		opts.Branch = gh.String(s.branch)
	}

	if _, _, err := s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, path, opts); err != nil {
		return s.mapError(ctx, "delete", path, err)
	}

	slog.DebugContext(ctx, "github document deleted",
		"path", path,
		"message", message,
	)

	return nil
}

func (s *DocumentStore) mapError(ctx context.Context, op, path string, err error) error {
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return domain.ErrDocumentNotFound
		case http.StatusConflict, http.StatusUnprocessableEntity:
			slog.WarnContext(ctx, "github rejected stale revision",
				"op", op,
				"path", path,
				"message", respErr.Message,
			)

			return fmt.Errorf("%w: %s %s: %s", domain.ErrRevisionConflict, op, path, respErr.Message)
		}
	}

	slog.ErrorContext(ctx, "github contents api failed",
		"op", op,
		"path", path,
		"error", err,
	)

	return fmt.Errorf("%w: github %s %s: %v", domain.ErrUpstreamFailure, op, path, err)
}

var _ domain.DocumentStore = (*DocumentStore)(nil)
