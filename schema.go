package knex

// Node describes one step of a declarative pipeline.
type Node struct {
	Args   Args `json:"args,omitempty" yaml:"args,omitempty"`
	Parser Name `json:"parser" yaml:"parser"`
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Schema is the declarative form of a chain: the seed input, the error
// policy and the ordered steps. It is what the loader consumes, and what
// (*Parser).Schema produces, so a chain built in code can be saved and
// replayed.
type Schema struct {
	Input          any    `json:"input,omitempty" yaml:"input,omitempty"`
	Steps          []Node `json:"steps" yaml:"steps"`
	RaiseException bool   `json:"raise_exception,omitempty" yaml:"raise_exception,omitempty"`
}

// Schema describes the chain that produced p. Steps whose faults were
// suppressed are marked Failed.
func (p *Parser) Schema() Schema {
	s := Schema{
		Input:          p.result,
		Steps:          make([]Node, len(p.history)),
		RaiseException: p.raise,
	}
	if len(p.history) > 0 {
		s.Input = p.history[0].Input
	}
	for i, step := range p.history {
		s.Steps[i] = Node{
			Args:   step.Args.Clone(),
			Parser: step.Parser,
			Failed: step.Failed,
		}
	}
	return s
}
