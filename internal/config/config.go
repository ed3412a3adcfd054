package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProduction = "production"

	RemoteStoreGitHub = "github"
	RemoteStoreGit    = "git"

	// the value shipped in the example env file; treated as unset
	placeholderGitHubToken = "your_github_personal_access_token_here"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Log      LogConfig
	Storage  StorageConfig
	GitHub   GitHubConfig
	Git      GitConfig
	Chatwork ChatworkConfig
	PubSub   PubSubConfig
}

type LogConfig struct {
	Level string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	Env           string
	LocalPath     string
	RemoteStore   string
	RemindersPath string
	WorkflowDir   string

	github GitHubConfig
	git    GitConfig
}

type GitHubConfig struct {
	Token   string
	Owner   string
	Repo    string
	Branch  string
	BaseURL string
}

type GitConfig struct {
	RepoPath    string
	AuthorName  string
	AuthorEmail string
}

type ChatworkConfig struct {
	Token         string
	BaseURL       string
	RatePerSecond float64
	Burst         int
}

type PubSubConfig struct {
	NATSURL string
}

func Load() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("SERVER_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	ratePerSecond, err := strconv.ParseFloat(getEnv("CHATWORK_RATE_LIMIT", "1"), 64)
	if err != nil || ratePerSecond < 0 {
		return nil, fmt.Errorf("invalid CHATWORK_RATE_LIMIT: %q", os.Getenv("CHATWORK_RATE_LIMIT"))
	}

	burst, err := strconv.Atoi(getEnv("CHATWORK_RATE_BURST", "5"))
	if err != nil || burst < 1 {
		return nil, fmt.Errorf("invalid CHATWORK_RATE_BURST: %q", os.Getenv("CHATWORK_RATE_BURST"))
	}

	remoteStore := strings.ToLower(getEnv("REMOTE_STORE", RemoteStoreGitHub))
	if remoteStore != RemoteStoreGitHub && remoteStore != RemoteStoreGit {
		return nil, fmt.Errorf("invalid REMOTE_STORE: %q (want %q or %q)", remoteStore, RemoteStoreGitHub, RemoteStoreGit)
	}

	env := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))

	gh := GitHubConfig{
		Token:   os.Getenv("GITHUB_TOKEN"),
		Owner:   os.Getenv("GITHUB_OWNER"),
		Repo:    os.Getenv("GITHUB_REPO"),
		Branch:  os.Getenv("GITHUB_BRANCH"),
		BaseURL: os.Getenv("GITHUB_API_URL"),
	}

	git := GitConfig{
		RepoPath:    os.Getenv("GIT_REPO_PATH"),
		AuthorName:  getEnv("GIT_AUTHOR_NAME", "reminder-bot"),
		AuthorEmail: getEnv("GIT_AUTHOR_EMAIL", "reminder-bot@localhost"),
	}

	return &Config{
		Env: env,
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         serverPort,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Env:           env,
			LocalPath:     getEnv("LOCAL_DATA_PATH", "./data/reminders.json"),
			RemoteStore:   remoteStore,
			RemindersPath: getEnv("REMINDERS_PATH", "data/reminders.json"),
			WorkflowDir:   getEnv("WORKFLOW_DIR", ".github/workflows"),
			github:        gh,
			git:           git,
		},
		GitHub: gh,
		Git:    git,
		Chatwork: ChatworkConfig{
			Token:         os.Getenv("CHATWORK_API_TOKEN"),
			BaseURL:       getEnv("CHATWORK_BASE_URL", "https://api.chatwork.com/v2"),
			RatePerSecond: ratePerSecond,
			Burst:         burst,
		},
		PubSub: PubSubConfig{
			NATSURL: os.Getenv("NATS_URL"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UseRemote reports whether reminders live in the remote versioned store.
// Outside production, or with incomplete credentials for the selected
// store, the local file is used.
func (c *StorageConfig) UseRemote() bool {
	if c.Env != EnvProduction {
		return false
	}

	switch c.RemoteStore {
	case RemoteStoreGit:
		return c.git.RepoPath != ""
	default:
		return c.github.Token != "" &&
			c.github.Token != placeholderGitHubToken &&
			c.github.Owner != "" &&
			c.github.Repo != ""
	}
}

func (c *PubSubConfig) Enabled() bool {
	return c.NATSURL != ""
}
