package parse

import (
	"github.com/leofalp/tabex/core/table"
)

// Strategy is one self-contained way of recovering tables from model text.
// Implementations must be pure: no shared mutable state, no mutation of
// tables returned by earlier calls. Extract returns ok=false when the
// strategy does not apply to text.
type Strategy interface {
	Name() string
	Extract(text string) (tables []table.RawTable, ok bool)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc struct {
	Label string
	Fn    func(text string) ([]table.RawTable, bool)
}

// Name returns the label given to the function.
func (f StrategyFunc) Name() string { return f.Label }

// Extract calls the wrapped function.
func (f StrategyFunc) Extract(text string) ([]table.RawTable, bool) { return f.Fn(text) }

// Match is the outcome of a successful chain run.
type Match struct {
	// Strategy is the name of the strategy that produced Tables.
	Strategy string
	// Degraded is true when the winning strategy is a best-effort one.
	Degraded bool
	// Tables holds only tables with at least one header.
	Tables []table.RawTable
}

type link struct {
	strategy Strategy
	degraded bool
}

// Chain runs strategies in priority order and returns the first success.
// The zero value is an empty chain that never matches.
type Chain struct {
	links []link
}

// NewChain returns an empty chain. Use [Chain.Add] and [Chain.AddDegraded]
// to register strategies in priority order.
func NewChain() *Chain {
	return &Chain{}
}

// DefaultChain returns the chain used for model output: JSON, line protocol,
// HTML tables, Markdown tables and finally prose heuristics.
func DefaultChain() *Chain {
	return NewChain().
		Add(JSONStrategy{}).
		Add(ProtocolStrategy{}).
		AddDegraded(HTMLStrategy{}).
		AddDegraded(MarkdownStrategy{}).
		AddDegraded(HeuristicStrategy{})
}

// Add appends a primary strategy.
func (c *Chain) Add(s Strategy) *Chain {
	c.links = append(c.links, link{strategy: s})
	return c
}

// AddDegraded appends a strategy whose results are reported as partial.
func (c *Chain) AddDegraded(s Strategy) *Chain {
	c.links = append(c.links, link{strategy: s, degraded: true})
	return c
}

// Strategies returns the registered strategy names in priority order.
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.links))
	for i, l := range c.links {
		names[i] = l.strategy.Name()
	}
	return names
}

// Extract runs every strategy against the same text until one returns at
// least one table with non-empty headers. Tables without headers are dropped
// from the winning result. Results of different strategies are never merged.
func (c *Chain) Extract(text string) (Match, bool) {
	for _, l := range c.links {
		tables, ok := l.strategy.Extract(text)
		if !ok {
			continue
		}

		kept := withHeaders(tables)
		if len(kept) == 0 {
			continue
		}

		return Match{
			Strategy: l.strategy.Name(),
			Degraded: l.degraded,
			Tables:   kept,
		}, true
	}

	return Match{}, false
}

func withHeaders(tables []table.RawTable) []table.RawTable {
	var kept []table.RawTable
	for _, t := range tables {
		if t.HasHeaders() {
			kept = append(kept, t)
		}
	}
	return kept
}
