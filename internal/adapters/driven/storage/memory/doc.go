// Package memory provides in-memory implementations of driven port interfaces.
// They back unit tests and any run where persistence is not wanted.
package memory
