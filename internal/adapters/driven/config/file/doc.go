// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - TemplateStore: user-editable scaffolding templates with embedded defaults
package file
