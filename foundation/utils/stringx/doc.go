// File: doc.go
// Title: Package Documentation for stringx
// Description: Package stringx provides the small Unicode-aware string
//              helpers shared by the parmacl command and REPL.
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2025-01-26 v0.2.0: Enhanced documentation
// - 2025-10-19 v0.3.0: Reduced to the helpers used by parmacl

// Package stringx provides Unicode-aware string helpers.
//
// Lengths are counted in runes, so a truncated string never ends in a
// partial UTF-8 sequence:
//
//	stringx.Truncate("grep --output=results.txt", 12, "...") // "grep --ou..."
//
// FirstNonEmpty picks the first set value out of a precedence chain such
// as flag, profile setting and built-in default:
//
//	format := stringx.FirstNonEmpty(flagValue, profileValue, "table")
package stringx
