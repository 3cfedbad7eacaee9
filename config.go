// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rankit

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileConfig is the top-level configuration loaded from a YAML file, used
// by the rankit command. Library callers configure the Engine directly
// through options instead.
type FileConfig struct {
	Store   StoreConfig   `yaml:"store"`
	Scoring ScoringConfig `yaml:"scoring"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig holds corpus store settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ScoringConfig holds settings for the OpenAI-compatible relevance scorer.
type ScoringConfig struct {
	Host                 string `yaml:"host"`
	Model                string `yaml:"model"`
	BatchSize            int    `yaml:"batchSize"`
	MaxConcurrentBatches int    `yaml:"maxConcurrentBatches"`
}

// SearchConfig holds default retrieval depths for the two pipeline stages.
type SearchConfig struct {
	TopKLexical int `yaml:"topKLexical"`
	TopNFinal   int `yaml:"topNFinal"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads a YAML config file (if path is non-empty) and applies
// RANKIT_* environment-variable overrides on top of the defaults.
func LoadConfig(path string) (*FileConfig, error) {
	cfg := defaultFileConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultFileConfig() *FileConfig {
	return &FileConfig{
		Store: StoreConfig{
			Path: "rankit.db",
		},
		Scoring: ScoringConfig{
			Host:                 "http://localhost:11434",
			Model:                "qwen2.5:3b",
			BatchSize:            16,
			MaxConcurrentBatches: 2,
		},
		Search: SearchConfig{
			TopKLexical: 50,
			TopNFinal:   10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyEnvOverrides(cfg *FileConfig) {
	if v := os.Getenv("RANKIT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("RANKIT_SCORING_HOST"); v != "" {
		cfg.Scoring.Host = v
	}
	if v := os.Getenv("RANKIT_SCORING_MODEL"); v != "" {
		cfg.Scoring.Model = v
	}
	if v := os.Getenv("RANKIT_SCORING_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.BatchSize = n
		}
	}
	if v := os.Getenv("RANKIT_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
