// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content according to its meaning (commands, paths,
// values, hints) and degrade to plain text decorations when colors are
// unavailable.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("envsync --environment=qa")   // Commands and code
//	ui.Path.Sprint(".env.qa")                    // File paths
//	ui.Success.Sprint("✓")                        // Success indicators
//	ui.Error.Sprint("✗")                          // Error indicators
//	ui.Warning.Sprint("~")                        // Changes and warnings
//	ui.Info.Sprint("→")                           // Informational hints
//	ui.Highlight.Sprint("DOMAIN")                 // Item names
//	ui.Muted.Sprint("unchanged")                  // De-emphasized text
//
// # Color Behavior
//
// Colors are disabled when NO_COLOR is set or the terminal does not
// support them. Without colors:
//   - Code: `backticks`
//   - Highlight: 'single quotes'
//   - Muted: (parentheses)
//   - Others: no decoration
//
// # Secret Values
//
// Mask replaces a secret value with a fixed-width placeholder so review
// output never reveals plaintext unless the operator asks for it.
package ui
