package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-chat-reminder/internal/config"
	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/github"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/gitstore"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/repository"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/workflow"
)

type storage struct {
	repo         domain.ReminderRepository
	materializer domain.JobMaterializer
}

// initStorage picks the reminder backend once for the life of the process.
func initStorage(cfg *config.Config) (*storage, error) {
	if !cfg.Storage.UseRemote() {
		slog.Info("using local reminder storage",
			"path", cfg.Storage.LocalPath,
			"env", cfg.Env,
		)

		return &storage{
			repo:         repository.NewLocalReminderRepository(cfg.Storage.LocalPath),
			materializer: workflow.NoopMaterializer{},
		}, nil
	}

	store, err := initDocumentStore(cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := workflow.NewRenderer(cfg.Chatwork.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build job renderer: %w", err)
	}

	return &storage{
		repo:         repository.NewRemoteReminderRepository(store, cfg.Storage.RemindersPath),
		materializer: workflow.NewMaterializer(store, renderer, cfg.Storage.WorkflowDir),
	}, nil
}

func initDocumentStore(cfg *config.Config) (domain.DocumentStore, error) {
	switch cfg.Storage.RemoteStore {
	case config.RemoteStoreGit:
		store, err := gitstore.NewDocumentStore(gitstore.Config{
			RepoPath:    cfg.Git.RepoPath,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open git store: %w", err)
		}

		slog.Info("using git reminder storage",
			"repo_path", cfg.Git.RepoPath,
			"reminders_path", cfg.Storage.RemindersPath,
		)

		return store, nil
	default:
		store, err := github.NewDocumentStore(github.Config{
			Token:   cfg.GitHub.Token,
			Owner:   cfg.GitHub.Owner,
			Repo:    cfg.GitHub.Repo,
			Branch:  cfg.GitHub.Branch,
			BaseURL: cfg.GitHub.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create github store: %w", err)
		}

		slog.Info("using github reminder storage",
			"owner", cfg.GitHub.Owner,
			"repo", cfg.GitHub.Repo,
			"branch", cfg.GitHub.Branch,
			"reminders_path", cfg.Storage.RemindersPath,
		)

		return store, nil
	}
}

func initPublisher(ctx context.Context, cfg *config.Config) (pubsub.Publisher, error) {
	if !cfg.PubSub.Enabled() {
		slog.Warn("NATS_URL not set, event publishing disabled")
		return nil, nil
	}

	publisher, err := pubsub.NewNATSPublisher(ctx, pubsub.NATSPublisherConfig{
		URL: cfg.PubSub.NATSURL,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("NATS publisher initialized", "url", cfg.PubSub.NATSURL)

	return publisher, nil
}
