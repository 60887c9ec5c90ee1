// Package utils provides shared helpers for envsync.
//
// # Terminal Utilities
//
//   - IsTerminal: checks whether a reader is an interactive terminal
//   - ReadHidden: reads a line without echoing it (secret prompts)
//
// # Validation Utilities
//
// Value checks used by the question catalogue:
//   - IsValidEmail, IsValidDomain, IsValidPort, IsPositiveInt
//   - IsValidEnvironmentName: environment names accepted by the registry
package utils
