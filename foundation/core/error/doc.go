// Package error provides structured error handling for parmacl.
//
// Package: error
// Title: parmacl Error Handling
// Description: Structured errors carrying a code, the failing operation and
//              arbitrary details. Used by the configuration layer, the
//              matcher registry, the history store and the CLI. Parse
//              failures have their own type in package cmdline and convert
//              into this type with ParseError.ToError.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-10-19 v0.2.0: Trimmed to codes used by the command line parser
//
// Usage:
//
//	err := pmerror.New("matcher index out of range").
//		WithCode(pmerror.CodeValueOutOfRange).
//		WithOperation("cmdline.RemoveMatcher").
//		WithDetail("index", 7)
//
//	if pmerror.HasCode(err, pmerror.CodeValueOutOfRange) {
//		// ...
//	}
package error
