package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// specSeparator splits a package name from its pinned version.
const specSeparator = "=="

// PackageRef is a parsed name[==version] specifier.
type PackageRef struct {
	Name    string
	Version string
}

// Pinned reports whether the specifier carried an explicit version.
func (r PackageRef) Pinned() bool {
	return r.Version != ""
}

// String returns the specifier form of the reference.
func (r PackageRef) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + specSeparator + r.Version
}

// ParseSpec splits input at the first "==" into a name and an optional
// pinned version. The version is accepted verbatim apart from surrounding
// whitespace.
func ParseSpec(input string) (PackageRef, error) {
	name, version, _ := strings.Cut(input, specSeparator)
	ref := PackageRef{
		Name:    strings.TrimSpace(name),
		Version: strings.TrimSpace(version),
	}
	if ref.Name == "" {
		return PackageRef{}, fmt.Errorf("%w: empty package name in %q", ErrInvalidInput, input)
	}
	return ref, nil
}

// BumpKind selects which semantic version component to increment.
type BumpKind string

// Supported bump kinds.
const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// IsValid returns true if the bump kind is recognised.
func (k BumpKind) IsValid() bool {
	switch k {
	case BumpMajor, BumpMinor, BumpPatch:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k BumpKind) String() string {
	return string(k)
}

// AllBumpKinds returns every supported bump kind.
func AllBumpKinds() []BumpKind {
	return []BumpKind{BumpMajor, BumpMinor, BumpPatch}
}

// ParseBumpKind converts s into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	k := BumpKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: unknown bump type %q, use 'major', 'minor' or 'patch'", ErrInvalidInput, s)
	}
	return k, nil
}

// Bump returns version with the component selected by kind incremented.
// Any pre-release suffix (everything from the first '-') is dropped.
func Bump(version string, kind BumpKind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unknown bump type %q", ErrInvalidInput, kind)
	}

	base, _, _ := strings.Cut(version, "-")
	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q, expected major.minor.patch", ErrInvalidVersionFormat, version)
	}

	var nums [3]uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return "", fmt.Errorf("%w: %q has non-numeric component %q", ErrInvalidVersionFormat, version, part)
		}
		nums[i] = n
	}

	major, minor, patch := nums[0], nums[1], nums[2]
	switch kind {
	case BumpMajor:
		return fmt.Sprintf("%d.0.0", major+1), nil
	case BumpMinor:
		return fmt.Sprintf("%d.%d.0", major, minor+1), nil
	default:
		return fmt.Sprintf("%d.%d.%d", major, minor, patch+1), nil
	}
}
