package lifecycle

import "testing"

func TestMachineCanTransition(t *testing.T) {
	m := New(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {},
	})

	cases := []struct {
		from, to string
		want     bool
	}{
		{"a", "b", true},
		{"a", "c", true},
		{"b", "c", true},
		{"b", "a", false},
		{"c", "a", false},
		{"a", "a", false},
		{"unknown", "a", false},
	}
	for _, tc := range cases {
		if got := m.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMachineKnown(t *testing.T) {
	m := New(map[string][]string{"a": {"b"}, "b": {}})
	if !m.Known("a") || !m.Known("b") {
		t.Fatal("expected listed states to be known")
	}
	if m.Known("z") {
		t.Fatal("expected unlisted state to be unknown")
	}
}
