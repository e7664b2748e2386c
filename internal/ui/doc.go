// Package ui provides terminal output for the satip-discover CLI.
//
// It uses Lipgloss to render result boxes and Bubble Tea with a Bubbles
// spinner to show the state of a running discovery. The components follow
// a "run once and exit" pattern: nothing waits for user input except
// ctrl+c, which ends collection early.
//
// # Components
//
//   - Header: command banner showing target, bind address and wait time
//   - Result: success, warning and failure boxes with ordered details
//   - Printer: server lists in detailed, compact or JSON form
//   - RunScan: spinner driven by satip.Discoverer state changes
//
// # Logging Integration
//
// Logging is controlled via the SATIP_LOG_LEVEL environment variable or the
// --log-level flag. Logs go to stderr so that JSON on stdout stays parseable.
package ui
