package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragaas/internal/completion"
	"ragaas/internal/config"
	"ragaas/internal/retrieval"
	"ragaas/internal/service"
	"ragaas/internal/tui"
	"ragaas/internal/websearch"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragaas/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble backend clients. Retrieval and completion credentials are
	// required; web search stays disabled without one.
	retrievalClient, err := retrieval.NewClient(retrieval.Config{
		BaseURL:   cfg.Retrieval.BaseURL,
		APIKeyEnv: cfg.Retrieval.APIKeyEnv,
		Timeout:   time.Duration(cfg.Retrieval.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("retrieval client init failed: %v", err)
	}

	searcher := websearch.NewClient(websearch.Config{
		BaseURL:   cfg.WebSearch.BaseURL,
		APIKeyEnv: cfg.WebSearch.APIKeyEnv,
		Engine:    cfg.WebSearch.Engine,
		Timeout:   time.Duration(cfg.WebSearch.TimeoutSecs) * time.Second,
	})

	completer, err := completion.NewClient(completion.Config{
		BaseURL:   cfg.Completion.BaseURL,
		APIKeyEnv: cfg.Completion.APIKeyEnv,
		Model:     cfg.Completion.Model,
		MaxTokens: cfg.Completion.MaxTokens,
		Timeout:   time.Duration(cfg.Completion.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("completion client init failed: %v", err)
	}

	svc := service.NewRAGService(retrievalClient, searcher, completer, retrievalClient, cfg.WebSearch.MaxResults)

	m := tui.New(svc, cfg.Retrieval.DefaultScope, cfg.Ingest.DefaultMode)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
