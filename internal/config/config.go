package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/ingestprep/internal/domain/value"
)

// Config holds the ingestprep pipeline configuration.
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Inference InferenceConfig `yaml:"inference"`
	Store     StoreConfig     `yaml:"store"`
	Index     IndexDefaults   `yaml:"index"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// PipelineConfig describes the transformation steps applied to each document.
type PipelineConfig struct {
	IndexName string         `yaml:"index_name"`
	Chunking  *ChunkingStep  `yaml:"chunking"`
	Embedding *EmbeddingStep `yaml:"embedding"`
	BatchSize int            `yaml:"batch_size"`
}

// ChunkingStep configures one chunking processor: exactly one algorithm key
// mapped to its parameters, plus the field map naming source and target keys.
type ChunkingStep struct {
	Algorithm map[string]map[string]any `yaml:"algorithm"`
	FieldMap  yaml.Node                 `yaml:"field_map"`
}

// EmbeddingStep configures one embedding processor.
type EmbeddingStep struct {
	FieldMap      yaml.Node `yaml:"field_map"`
	NestedListKey string    `yaml:"nested_list_key"`
}

// InferenceConfig holds inference provider settings.
type InferenceConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	User       string `yaml:"user"`
}

// StoreConfig holds the index settings store connection. Empty addrs means
// no store: the environment defaults below apply to every index.
type StoreConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexDefaults are the environment-level index limits used when an index
// has no stored settings.
type IndexDefaults struct {
	MaxNestingDepth int `yaml:"max_nesting_depth"`
	MaxTokenCount   int `yaml:"max_token_count"`
}

// FieldMapValue converts the step's field_map node into an ordered map,
// preserving YAML key order. Leaf values must be strings (target keys);
// nested mappings recurse.
func (s *ChunkingStep) FieldMapValue() (*value.Map, error) {
	return fieldMapFromNode(&s.FieldMap)
}

// FieldMapValue converts the step's field_map node into an ordered map.
func (s *EmbeddingStep) FieldMapValue() (*value.Map, error) {
	return fieldMapFromNode(&s.FieldMap)
}

// fieldMapFromNode converts a YAML mapping node to a value.Map. A plain
// map[string]any would lose key order, which traversal depends on.
func fieldMapFromNode(n *yaml.Node) (*value.Map, error) {
	if n == nil || n.Kind == 0 {
		return nil, fmt.Errorf("field_map is required")
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("field_map must be a mapping, got %s", nodeKind(n))
	}
	m := value.NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field_map key must be a scalar, got %s", nodeKind(keyNode))
		}
		switch valNode.Kind {
		case yaml.ScalarNode:
			m.Set(keyNode.Value, value.String(valNode.Value))
		case yaml.MappingNode:
			nested, err := fieldMapFromNode(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, nested)
		default:
			return nil, fmt.Errorf("field_map entry %q must be a target key or nested mapping", keyNode.Value)
		}
	}
	return m, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	default:
		return "unknown"
	}
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = 100
	}
	if c.Index.MaxNestingDepth <= 0 {
		c.Index.MaxNestingDepth = 20
	}
	if c.Index.MaxTokenCount <= 0 {
		c.Index.MaxTokenCount = 10000
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "ingestprep:index:"
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Pipeline.Chunking == nil && c.Pipeline.Embedding == nil {
		return fmt.Errorf("pipeline must configure at least one of chunking and embedding")
	}
	if c.Pipeline.IndexName == "" {
		return fmt.Errorf("pipeline.index_name is required")
	}
	if step := c.Pipeline.Chunking; step != nil {
		if len(step.Algorithm) != 1 {
			return fmt.Errorf("pipeline.chunking.algorithm must contain exactly 1 algorithm, got %d", len(step.Algorithm))
		}
	}
	if c.Pipeline.Embedding != nil {
		if c.Inference.Model == "" {
			return fmt.Errorf("inference.model is required when pipeline.embedding is configured")
		}
		if c.Inference.APIKey == "" {
			return fmt.Errorf("inference.api_key is required when pipeline.embedding is configured")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
