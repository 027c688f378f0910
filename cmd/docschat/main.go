// File path: cmd/docschat/main.go
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/docschat/docschat/internal/api"
	"github.com/docschat/docschat/internal/app"
	"github.com/docschat/docschat/internal/common"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("docschat: .env file not loaded", "error", err)
	} else {
		logger.Info("docschat: environment loaded from .env")
	}

	addr := flag.String("addr", ":8080", "listen address")
	dataDir := flag.String("data", "", "data directory (overrides DOCSCHAT_DATA_DIR)")
	dbPath := flag.String("db", "", "path to the SQLite catalog database (overrides DOCSCHAT_DB_PATH)")
	chunkSize := flag.Int("chunk-size", 0, "ingestion chunk size in runes (overrides DOCSCHAT_INGEST_CHUNK_SIZE)")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("docschat: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*dataDir); trimmed != "" {
		cfg.DataDir = trimmed
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		cfg.DBPath = trimmed
	}
	if *chunkSize > 0 {
		cfg.IngestChunkSize = *chunkSize
	}

	logger.Info("docschat: startup initiated", "addr", *addr, "data_dir", cfg.DataDir, "db", cfg.DBPath)

	application, err := app.New(cfg)
	if err != nil {
		logger.Error("docschat: application initialization failed", "error", err)
		fmt.Println("startup error:", err)
		os.Exit(1)
	}
	defer application.Close()

	server, err := api.NewServer(application)
	if err != nil {
		logger.Error("docschat: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("docschat: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("docschat: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("docschat: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
