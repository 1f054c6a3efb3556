package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the filing QA tool.
type Config struct {
	Document  DocumentConfig  `yaml:"document"`
	Store     StoreConfig     `yaml:"store"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DocumentConfig locates the filing to ingest. Path, when set, overrides
// pattern-based discovery under DataDir.
type DocumentConfig struct {
	Path     string   `yaml:"path"`
	DataDir  string   `yaml:"data_dir"`
	Patterns []string `yaml:"patterns"`
}

// StoreConfig holds vector store configuration.
type StoreConfig struct {
	Path       string `yaml:"path"`       // bbolt database file
	Collection string `yaml:"collection"` // bucket holding this filing's vectors
}

// ChunkingConfig holds segmentation and chunking parameters (word counts
// unless noted otherwise).
type ChunkingConfig struct {
	SectionWords     int `yaml:"section_words"`
	MinSectionChars  int `yaml:"min_section_chars"`
	MinDocumentChars int `yaml:"min_document_chars"`
	MinDocumentWords int `yaml:"min_document_words"`
	ChunkWords       int `yaml:"chunk_words"`
	OverlapWords     int `yaml:"overlap_words"`
	MinChunkWords    int `yaml:"min_chunk_words"`
	MaxTables        int `yaml:"max_tables"`
	MinTableChars    int `yaml:"min_table_chars"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// LLMConfig holds generative model configuration.
type LLMConfig struct {
	Model            string `yaml:"model"`
	APIKeyEnv        string `yaml:"api_key_env"`
	BaseURL          string `yaml:"base_url"`
	SystemPromptPath string `yaml:"system_prompt_path"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	MaxRetries       int    `yaml:"max_retries"`
}

// SearchConfig holds web search configuration.
type SearchConfig struct {
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	MaxResults     int    `yaml:"max_results"`
	Depth          string `yaml:"depth"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			DataDir:  "data",
			Patterns: []string{"**/*.htm", "**/*.html"},
		},
		Store: StoreConfig{
			Path:       filepath.Join("data", "vector_store", "index.db"),
			Collection: "apple_10k",
		},
		Chunking: ChunkingConfig{
			SectionWords:     2000,
			MinSectionChars:  500,
			MinDocumentChars: 1000,
			MinDocumentWords: 100,
			ChunkWords:       500,
			OverlapWords:     100,
			MinChunkWords:    50,
			MaxTables:        20,
			MinTableChars:    50,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		LLM: LLMConfig{
			Model:            "gemini-2.0-flash",
			APIKeyEnv:        "GOOGLE_API_KEY",
			SystemPromptPath: filepath.Join("prompts", "system_prompt.txt"),
			TimeoutSeconds:   60,
			MaxRetries:       3,
		},
		Search: SearchConfig{
			APIKeyEnv:      "TAVILY_API_KEY",
			BaseURL:        "https://api.tavily.com/search",
			MaxResults:     5,
			Depth:          "basic",
			TimeoutSeconds: 30,
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for tenk.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "tenk.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".tenk", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureStoreDir ensures the directory holding the vector store exists.
func (c *Config) EnsureStoreDir() error {
	return os.MkdirAll(filepath.Dir(c.Store.Path), 0755)
}
