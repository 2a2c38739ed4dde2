// Package pip implements the environment gateway on top of a Python
// virtual environment and its pip executable.
package pip
