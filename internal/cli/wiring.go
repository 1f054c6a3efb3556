package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tenk/config"
	"tenk/internal/adapter/analyzer"
	"tenk/internal/adapter/cache"
	"tenk/internal/adapter/embedding"
	"tenk/internal/adapter/llm"
	"tenk/internal/adapter/store"
	"tenk/internal/adapter/websearch"
	"tenk/internal/port"
	"tenk/internal/usecase"
)

// defaultSystemPrompt is used when no prompt file is found on disk.
const defaultSystemPrompt = `You are a financial analyst assistant specializing in SEC filings.
You answer questions about a company's annual 10-K filing using only the
provided context, citing the chunks you rely on. When information is not
in the context, say so rather than guessing. Be precise with figures and
always distinguish historical filing data from current market data.`

// resolvePath anchors a relative config path at the root directory.
func resolvePath(rootDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

// loadSystemPrompt reads the prompt file, falling back to the built-in
// prompt when the file does not exist.
func loadSystemPrompt(path string) (string, error) {
	if path == "" {
		return defaultSystemPrompt, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultSystemPrompt, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt: %w", err)
	}
	return string(data), nil
}

// buildEmbedder creates the configured embedding provider.
func buildEmbedder(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		return embedding.NewOpenAIEmbedder(cfg)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

// openStore opens the vector store at the resolved path, sized to the
// embedder's dimension.
func openStore(cfg *config.Config, rootDir string, dimension int) (*store.BoltVectorStore, error) {
	cfg.Store.Path = resolvePath(rootDir, cfg.Store.Path)
	if err := cfg.EnsureStoreDir(); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return store.NewBoltVectorStore(cfg.Store.Path, cfg.Store.Collection, dimension)
}

// buildAgent wires the full query path: embedder, vector store, Gemini,
// Tavily, document QA and the routing agent. The returned closer releases
// the vector store.
func buildAgent(cfg *config.Config, rootDir string) (*usecase.Agent, func() error, error) {
	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore(cfg, rootDir, embedder.Dimension())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	count, err := st.Count()
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("failed to read vector store: %w", err)
	}
	if count == 0 {
		st.Close()
		return nil, nil, fmt.Errorf("no index found. Run 'tenk ingest' first")
	}

	gemini, err := llm.NewGeminiClient(cfg.LLM)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	tavily, err := websearch.NewTavilyClient(cfg.Search, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	systemPrompt, err := loadSystemPrompt(resolvePath(rootDir, cfg.LLM.SystemPromptPath))
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	docQA := usecase.NewDocQAUseCase(embedder, st, gemini, cfg.Retrieve.TopK, systemPrompt, logger).
		WithCache(cache.NewQueryCache(100, 5*time.Minute))
	agent := usecase.NewAgent(docQA, tavily, gemini, analyzer.NewIntentClassifier(), systemPrompt, cfg.Search.MaxResults, logger)

	return agent, st.Close, nil
}
