// Package config provides configuration loading for parmacl.
//
// Package: config
// Title: parmacl Configuration Management
// Description: Loads TOML and YAML documents, exposes dot-path getters with
//              environment variable overrides and decodes whole documents
//              into structs. Parser profiles in package profile are read
//              through this package.
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2025-10-19 v0.2.0: Decode, discovery of parmacl profiles
//
// Usage:
//
//	cfg, err := config.Load("parmacl.toml")
//	if err != nil {
//		return err
//	}
//	historyPath := cfg.GetString("history.path", "history.db")
//
//	var doc struct {
//		History struct {
//			Path string `toml:"path"`
//		} `toml:"history"`
//	}
//	err = cfg.Decode(&doc)
package config
