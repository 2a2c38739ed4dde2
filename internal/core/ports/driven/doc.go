// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ManifestStore: Manifest persistence (TOML file)
//   - Environment: Package install/uninstall/query against a virtual environment
//   - Shell: Platform shell strategy for user scripts
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Operation journal. Without it nothing is journaled.
//   - Confirmer: Interactive prompts. Without it every question is declined.
//   - VCS: Git initialisation. Without it the git step is rejected.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
