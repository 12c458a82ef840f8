package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// routesFile is the TOML shape of a fallback-route override file:
//
//	[routes]
//	edit_article = "/workbench/{article_id}"
//	goto_topics = ""          # empty removes the built-in route
type routesFile struct {
	Routes map[string]string `toml:"routes"`
}

// LoadRoutes reads fallback-route overrides from path. An empty path
// returns nil overrides, meaning the built-in defaults apply unchanged.
func LoadRoutes(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read routes file: %w", err)
	}

	var parsed routesFile
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse routes file %s: %w", path, err)
	}
	return parsed.Routes, nil
}
