package knex

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Schema Tests
// -----------------------------------------------------------------------------

func TestParser_Schema(t *testing.T) {
	ctx := context.Background()

	t.Run("Seed", func(t *testing.T) {
		got := New("x", WithRaise(true)).Schema()
		want := Schema{Input: "x", Steps: []Node{}, RaiseException: true}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("schema mismatch (-want +got):\n%s", d)
		}
	})

	t.Run("Chain", func(t *testing.T) {
		out, err := New([]any{"a"}).Pipe(ctx, elementT{Idx: 0}, suffixT{Suffix: "/24"}, lengthT{}, upperT{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := Schema{
			Input: []any{"a"},
			Steps: []Node{
				{Parser: elementName, Args: Args{"idx": 0}},
				{Parser: suffixName, Args: Args{"suffix": "/24"}},
				{Parser: lengthName, Args: Args{}},
				{Parser: upperName, Args: Args{}, Failed: true},
			},
		}
		if d := cmp.Diff(want, out.Schema()); d != "" {
			t.Errorf("schema mismatch (-want +got):\n%s", d)
		}
	})
}

func TestSchema_MarshalJSON(t *testing.T) {
	s := Schema{
		Input: "clay,michelle",
		Steps: []Node{
			{Parser: "Split", Args: Args{"delimiter": ","}},
			{Parser: "ToUpper"},
		},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"input":"clay,michelle","steps":[{"args":{"delimiter":","},"parser":"Split"},{"parser":"ToUpper"}]}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", data, want)
	}
}

func TestSchema_UnmarshalYAML(t *testing.T) {
	doc := `
input: ["192.168.190.235", "192.168.191.2"]
raise_exception: true
steps:
  - parser: GetIndex
    args: {idx: 0}
  - parser: IpNetwork
`
	var s Schema
	if err := yaml.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := Schema{
		Input:          []any{"192.168.190.235", "192.168.191.2"},
		RaiseException: true,
		Steps: []Node{
			{Parser: "GetIndex", Args: Args{"idx": 0}},
			{Parser: "IpNetwork"},
		},
	}
	if d := cmp.Diff(want, s); d != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", d)
	}
}
