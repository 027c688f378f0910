// File path: internal/app/app.go

// Package app owns the application context: every long-lived component is
// constructed here once at process start and passed by handle into the
// layers that need it. Nothing in the repository reaches for a global.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docschat/docschat/internal/catalog"
	"github.com/docschat/docschat/internal/chat"
	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/ingest"
	"github.com/docschat/docschat/internal/llm"
	"github.com/docschat/docschat/internal/profile"
	"github.com/docschat/docschat/internal/splitter"
	"github.com/docschat/docschat/internal/vector"
)

type Config struct {
	DataDir         string
	DBPath          string
	IngestChunkSize int
}

// LoadConfig reads application settings from the environment, applying
// defaults for anything unset.
func LoadConfig() (Config, error) {
	cfg := Config{
		DataDir:         "data",
		IngestChunkSize: splitter.DefaultChunkSize,
	}
	if dir := strings.TrimSpace(os.Getenv("DOCSCHAT_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}
	if path := strings.TrimSpace(os.Getenv("DOCSCHAT_DB_PATH")); path != "" {
		cfg.DBPath = path
	}
	if raw := strings.TrimSpace(os.Getenv("DOCSCHAT_INGEST_CHUNK_SIZE")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCSCHAT_INGEST_CHUNK_SIZE: %w", err)
		}
		if value > 0 {
			cfg.IngestChunkSize = value
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "database.db")
	}
	return cfg, nil
}

// App bundles the catalog, profile selector, indexing pipeline and chat
// engine for the lifetime of the process.
type App struct {
	Catalog  *catalog.Store
	Selector *profile.Selector
	Pipeline *ingest.Pipeline
	Engine   *chat.Engine
}

// New wires the application together. A mode whose backend is not
// configured stays selectable-but-failing rather than aborting startup, so
// a host without an OpenAI key can still run privately and vice versa.
func New(cfg Config) (*App, error) {
	logger := common.Logger()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	cloud, err := llm.NewCloudProvider()
	if err != nil {
		logger.Warn("app: cloud provider unavailable, normal mode disabled", "error", err)
		cloud = nil
	}
	local, err := llm.NewLocalProvider()
	if err != nil {
		logger.Warn("app: local provider unavailable, private mode disabled", "error", err)
		local = nil
	}
	if cloud == nil && local == nil {
		store.Close()
		return nil, fmt.Errorf("no backend provider configured")
	}
	selector, err := profile.NewSelector(cfg.DataDir, cloud, local)
	if err != nil {
		store.Close()
		return nil, err
	}

	chatCfg, err := chat.LoadConfig()
	if err != nil {
		store.Close()
		return nil, err
	}
	indexes := vector.NewStore()
	application := &App{
		Catalog:  store,
		Selector: selector,
		Pipeline: ingest.NewPipeline(store, indexes, cfg.IngestChunkSize),
		Engine:   chat.NewEngine(store, indexes, chatCfg),
	}
	logger.Info("app: application context ready", "data_dir", cfg.DataDir, "db", cfg.DBPath)
	return application, nil
}

// Close tears the application context down at process exit.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Catalog.Close()
}
