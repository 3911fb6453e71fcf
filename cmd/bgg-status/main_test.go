package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestPick(t *testing.T) {
	t.Parallel()

	registered := []string{"application", "redis", "database"}
	cases := []struct {
		name      string
		requested []string
		want      []string
		ok        bool
	}{
		{"none requested means all", nil, nil, true},
		{"subset kept in request order", []string{"redis", "filesystem", "application"}, []string{"redis", "application"}, true},
		{"nothing known skips the engine", []string{"filesystem"}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := pick(tc.requested, registered)
			if ok != tc.ok || !slices.Equal(got, tc.want) {
				t.Fatalf("pick = %v, %v; want %v, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := watchOut{At: "2026-01-01T00:00:00Z", LastModified: &lastModifiedOut{Timestamp: 1, Formatted: "x"}}

	var buf bytes.Buffer
	if err := render(&buf, "json", out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.Contains(buf.String(), `"status"`) || !strings.Contains(buf.String(), `"timestamp": 1`) {
		t.Fatalf("json = %s", buf.String())
	}

	buf.Reset()
	if err := render(&buf, "yaml", out); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "last_modified:\n  timestamp: 1\n") {
		t.Fatalf("yaml = %s", buf.String())
	}

	if err := render(&buf, "toml", out); err == nil {
		t.Fatal("unknown format accepted")
	}
}
