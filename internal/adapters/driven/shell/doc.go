// Package shell provides platform shell strategies for running manifest
// scripts. The strategy is chosen once at startup with Select.
package shell
