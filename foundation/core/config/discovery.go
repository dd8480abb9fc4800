// File: discovery.go
// Title: Configuration File Discovery
// Description: Locates configuration files in a list of directories using
//              base names and extensions, then loads the first match.
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial discovery implementation
// - 2025-10-19 v0.2.0: XDG config home for parmacl profiles

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pmerror "github.com/msto63/parmacl/foundation/core/error"
)

// DiscoveryOptions defines options for automatic configuration file discovery
type DiscoveryOptions struct {
	Paths      []string // Directories to search for config files
	Filenames  []string // Base filenames to look for (without extension)
	Extensions []string // File extensions to try (.toml, .yaml, .yml)
	EnvPrefix  string   // Environment variable prefix for overrides
	Required   bool     // Whether finding a config file is required
}

// DefaultDiscoveryOptions returns the search locations for a parmacl profile:
// the working directory, then $XDG_CONFIG_HOME/parmacl (or ~/.config/parmacl).
func DefaultDiscoveryOptions() DiscoveryOptions {
	paths := []string{"."}
	if dir := userConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "parmacl"))
	}
	return DiscoveryOptions{
		Paths:      paths,
		Filenames:  []string{"parmacl", "profile"},
		Extensions: []string{".toml", ".yaml", ".yml"},
		EnvPrefix:  "PARMACL",
		Required:   false,
	}
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// Discover finds and loads the first configuration file. When nothing is
// found and the options do not require a file, Discover returns (nil, nil).
func Discover(options DiscoveryOptions) (*Config, error) {
	configPath, err := FindConfigFile(options)
	if err != nil {
		if !options.Required && pmerror.HasCode(err, pmerror.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	config, err := LoadWithOptions(configPath, LoadOptions{
		Format:    FormatAuto,
		EnvPrefix: options.EnvPrefix,
	})
	if err != nil {
		return nil, pmerror.Wrap(err, fmt.Sprintf("found config file %s but failed to load", configPath)).
			WithOperation("config.Discover").
			WithDetail("configPath", configPath)
	}
	return config, nil
}

// FindConfigFile searches for a configuration file without loading it
func FindConfigFile(options DiscoveryOptions) (string, error) {
	candidates := ListPossibleConfigFiles(options)
	for _, configPath := range candidates {
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}
	}

	return "", pmerror.New(fmt.Sprintf("no configuration file found in: %s", strings.Join(candidates, ", "))).
		WithCode(pmerror.CodeNotFound).
		WithOperation("config.FindConfigFile").
		WithDetail("searchPaths", candidates)
}

// ListPossibleConfigFiles returns a list of all possible configuration file paths
func ListPossibleConfigFiles(options DiscoveryOptions) []string {
	var paths []string
	for _, path := range options.Paths {
		for _, filename := range options.Filenames {
			for _, ext := range options.Extensions {
				paths = append(paths, filepath.Join(path, filename+ext))
			}
		}
	}
	return paths
}
