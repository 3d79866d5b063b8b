package knex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshot(t *testing.T) {
	t.Run("Tagged Fields", func(t *testing.T) {
		got := Snapshot(suffixT{Suffix: "/24"})
		if d := cmp.Diff(Args{"suffix": "/24"}, got); d != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", d)
		}
	})

	t.Run("No Fields", func(t *testing.T) {
		got := Snapshot(upperT{})
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil args, got %#v", got)
		}
	})

	t.Run("Skipped Fields", func(t *testing.T) {
		got := Snapshot(countT{Calls: newCounter()})
		if len(got) != 0 {
			t.Errorf("expected runtime fields to be skipped, got %v", got)
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if got := Snapshot(nil); got == nil || len(got) != 0 {
			t.Errorf("expected empty args, got %#v", got)
		}
	})
}

func TestDecode(t *testing.T) {
	t.Run("Weak Numbers", func(t *testing.T) {
		var e elementT
		if err := Decode(map[string]any{"idx": "3"}, &e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Idx != 3 {
			t.Errorf("expected 3, got %d", e.Idx)
		}
	})

	t.Run("Unknown Key", func(t *testing.T) {
		var s suffixT
		if err := Decode(map[string]any{"suffx": "x"}, &s); err == nil {
			t.Error("expected error for unknown key")
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		var s suffixT
		if err := Decode(Snapshot(suffixT{Suffix: "!"}), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Suffix != "!" {
			t.Errorf("expected !, got %q", s.Suffix)
		}
	})
}

func TestArgsClone(t *testing.T) {
	a := Args{"k": "v"}
	c := a.Clone()
	c["k"] = "changed"
	if a["k"] != "v" {
		t.Error("clone should not share storage")
	}
	if (Args(nil)).Clone() == nil {
		t.Error("clone of nil should be an empty map")
	}
}

func TestIdentity(t *testing.T) {
	for _, tr := range []Transform{Start{}, End{}} {
		out, err := tr.Process(nil, []any{1, 2}) //nolint:staticcheck // identity ignores the context
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tr.Name(), err)
		}
		if d := cmp.Diff([]any{1, 2}, out); d != "" {
			t.Errorf("%s changed its input (-want +got):\n%s", tr.Name(), d)
		}
	}
}
