package knex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory(t *testing.T) {
	h := History{
		{Input: "a", Output: "A", Parser: "ToUpper"},
		{Input: "A", Output: "shape mismatch", Parser: "Split", Failed: true},
		{Input: "shape mismatch", Output: 14, Parser: "Length"},
	}

	t.Run("Len", func(t *testing.T) {
		if h.Len() != 3 {
			t.Errorf("expected 3, got %d", h.Len())
		}
	})

	t.Run("Last", func(t *testing.T) {
		step, ok := h.Last()
		if !ok || step.Parser != "Length" {
			t.Errorf("expected Length, got %+v", step)
		}
		if _, ok := (History{}).Last(); ok {
			t.Error("empty history has no last step")
		}
	})

	t.Run("Failures", func(t *testing.T) {
		failures := h.Failures()
		if failures.Len() != 1 || failures[0].Parser != "Split" {
			t.Errorf("unexpected failures: %+v", failures)
		}
	})

	t.Run("Parsers", func(t *testing.T) {
		want := []Name{"ToUpper", "Split", "Length"}
		if d := cmp.Diff(want, h.Parsers()); d != "" {
			t.Errorf("parsers mismatch (-want +got):\n%s", d)
		}
	})

	t.Run("Extend Does Not Alias", func(t *testing.T) {
		base := make(History, 1, 4)
		base[0] = Step{Parser: "Start"}

		a := base.extend(Step{Parser: "a"})
		b := base.extend(Step{Parser: "b"})

		if a[1].Parser != "a" || b[1].Parser != "b" {
			t.Errorf("branches share storage: a=%v b=%v", a.Parsers(), b.Parsers())
		}
		if base.Len() != 1 {
			t.Errorf("base should be untouched, got %d", base.Len())
		}
	})

	t.Run("Clone", func(t *testing.T) {
		c := h.Clone()
		c[0].Parser = "changed"
		if h[0].Parser != "ToUpper" {
			t.Error("clone should not share storage")
		}
	})
}
