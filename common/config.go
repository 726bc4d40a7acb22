package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/common/constants"
)

// Config is the optional YAML file with the categories created on first start.
//
//	locale: fi
//	categories:
//	  - name: Favorites
//	    system: true
//	  - name: Platformer
//	    games: [Celeste, Hollow Knight]
type Config struct {
	Locale     string           `yaml:"locale"`
	Categories []CategoryConfig `yaml:"categories"`
}

type CategoryConfig struct {
	Name   string   `yaml:"name"`
	System bool     `yaml:"system"`
	Games  []string `yaml:"games"`
}

// FindConfigFile returns the explicitly given file or <rootPath>/.game-shelf/config.yaml if it exists.
func FindConfigFile(params *Params) string {
	if params.ConfigFile() != "" {
		return params.ConfigFile()
	}
	candidate := filepath.Join(params.RootPath(), constants.GameShelfDir, constants.ConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	for i, category := range config.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return nil, fmt.Errorf("category %d in config has no name", i+1)
		}
	}
	return &config, nil
}

func (s *Config) Seeds() []api.CategorySeed {
	seeds := make([]api.CategorySeed, 0, len(s.Categories))
	for _, category := range s.Categories {
		seeds = append(seeds, api.CategorySeed{
			Name:     strings.TrimSpace(category.Name),
			IsSystem: category.System,
			Games:    category.Games,
		})
	}
	return seeds
}
