// =============================================================================
// CSV to LIWC Dictionary - Main Entry Point
// =============================================================================
//
// This is the main entry point for the liwcdic CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   liwcdic convert          - Convert a CSV/XLSX word list (or a directory of them)
//   liwcdic validate         - Validate settings and dictionary files
//   liwcdic settings export  - Print or save the effective settings
//   liwcdic scan             - Show which categories occur in text files
//   liwcdic version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Conversion logic (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/cmd"
)

func main() {
	cmd.Execute()
}
