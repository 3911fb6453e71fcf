package strings

import (
	"slices"
	"testing"

	kit "bgg/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	def := []int{9}
	got := IfEmpty(in, def)
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	got2 := IfEmpty(empty, []string{"x"})
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()

	if got := MustString("ok", "name"); got != "ok" {
		t.Fatalf("MustString returned %q", got)
	}
	kit.MustPanic(t, func() { MustString("  ", "name") })
}

func TestNonEmptyAndDedupe(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"", " "}, []string{}},
		{[]string{"b", "", "a", "b"}, []string{"b", "a"}},
		{[]string{"redis", "redis", "redis"}, []string{"redis"}},
	}
	for _, c := range cases {
		got := Dedupe(NonEmpty(c.in))
		if !slices.Equal(got, c.want) {
			t.Fatalf("Dedupe(NonEmpty(%q)) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSortedJoin(t *testing.T) {
	t.Parallel()

	in := []string{"redis", "app", "db"}
	if got := SortedJoin(in, "_"); got != "app_db_redis" {
		t.Fatalf("SortedJoin = %q", got)
	}
	if in[0] != "redis" {
		t.Fatalf("SortedJoin mutated input: %q", in)
	}
}

func TestLower(t *testing.T) {
	t.Parallel()

	if got := Lower("  ReDiS "); got != "redis" {
		t.Fatalf("Lower = %q", got)
	}
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	if got := SplitCSV(" redis, ,database,"); !slices.Equal(got, []string{"redis", "database"}) {
		t.Fatalf("SplitCSV = %q", got)
	}
	if got := SplitCSV(""); got != nil {
		t.Fatalf("SplitCSV(\"\") = %q, want nil", got)
	}
}
