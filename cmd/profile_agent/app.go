package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/config"
	"github.com/jonathan/profile-analyzer/internal/documents"
	"github.com/jonathan/profile-analyzer/internal/extraction"
	"github.com/jonathan/profile-analyzer/internal/llm"
	"github.com/jonathan/profile-analyzer/internal/logger"
	"github.com/jonathan/profile-analyzer/internal/scraper"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// loadConfig resolves configuration from the config file, the environment and
// the root flags. extra binds command-specific flags to config keys.
func loadConfig(cmd *cobra.Command, extra map[string]string) (*config.Config, error) {
	v, err := config.New()
	if err != nil {
		return nil, err
	}

	bindings := map[string]string{"log.debug": "debug", "log.json": "json"}
	for key, flag := range extra {
		bindings[key] = flag
	}
	for key, name := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}
	return config.Load(v, cfgFile)
}

// env is what a command needs at run time. The model client is created only
// by commands that call the model.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	client llm.Client
}

func newEnv(cmd *cobra.Command, extra map[string]string) (*env, error) {
	cfg, err := loadConfig(cmd, extra)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) close() {
	if e.client != nil {
		_ = e.client.Close()
	}
	_ = e.log.Sync()
}

// scraper builds the profile scraper from the scraper settings.
func (e *env) scraper() *scraper.Scraper {
	return scraper.New(
		scraper.WithTimeout(e.cfg.Scraper.Timeout),
		scraper.WithUserAgent(e.cfg.Scraper.UserAgent),
		scraper.WithLogger(e.log),
	)
}

// extractor connects to the configured model provider.
func (e *env) extractor(ctx context.Context) (*extraction.Extractor, error) {
	mc, err := e.cfg.ModelConfig()
	if err != nil {
		return nil, err
	}
	if e.cfg.LLM.APIKey == "" && mc.Provider != llm.ProviderVertex {
		return nil, fmt.Errorf("API key is required (set %s_LLM_API_KEY or the provider's key variable)", config.EnvPrefix)
	}

	client, err := llm.NewClient(ctx, mc, e.cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", mc.Provider, err)
	}
	e.client = client

	log := logger.WithCommonFields(e.log, string(mc.Provider), client.GetModel(llm.TierStandard))
	return extraction.New(client, extraction.WithLogger(log)), nil
}

// analyzer wires a model-backed Analyzer. progress may be nil.
func (e *env) analyzer(ctx context.Context, progress analysis.ProgressCallback) (*analysis.Analyzer, *extraction.Extractor, error) {
	extractor, err := e.extractor(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := []analysis.Option{analysis.WithFetcher(e.scraper()), analysis.WithLogger(e.log)}
	if progress != nil {
		opts = append(opts, analysis.WithProgress(progress))
	}
	return analysis.New(extractor, opts...), extractor, nil
}

func readDocument(path string) (documents.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return documents.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	return documents.Document{Name: filepath.Base(path), Content: content}, nil
}

// readProfile loads a Profile document written by analyze --out.
func readProfile(path string) (*types.Profile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile types.Profile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &profile, nil
}

// splitSkills parses a comma-separated skills flag, dropping blanks.
func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
