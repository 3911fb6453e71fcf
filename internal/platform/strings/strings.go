// Package strings provides string slice helpers
package strings

import (
	"slices"
	std "strings"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// NonEmpty returns the entries of in that are not blank, order preserved
func NonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if std.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Dedupe drops repeated entries keeping the first occurrence
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SortedJoin returns the entries of in sorted and joined with sep; in is not modified
func SortedJoin(in []string, sep string) string {
	c := slices.Clone(in)
	slices.Sort(c)
	return std.Join(c, sep)
}

// Lower trims and lowercases s
func Lower(s string) string { return std.ToLower(std.TrimSpace(s)) }

// SplitCSV splits a comma separated list, trimming entries and dropping blanks
func SplitCSV(s string) []string {
	var out []string
	for _, p := range std.Split(s, ",") {
		if p = std.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
