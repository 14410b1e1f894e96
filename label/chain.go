package label

import "fmt"

// Chain is one If/ElseIf/Else decision sequence. Every chain owns its
// fired flag, so a chain built inside another branch's configure
// callback cannot clobber the outer chain's state; at most one branch
// of a chain ever fires.
type Chain struct {
	builder *Builder
	fired   bool
}

// If begins a decision chain. When the bound context satisfies cond,
// configure is invoked with the builder and the chain is marked fired.
func (b *Builder) If(cond Condition, configure func(*Builder)) *Chain {
	c := &Chain{builder: b}
	if b.err != nil {
		return c
	}
	if cond == nil {
		b.fail(fmt.Errorf("label: if requires a condition"))
		return c
	}
	if configure == nil {
		b.fail(fmt.Errorf("label: if requires a configure callback"))
		return c
	}
	if cond(b.context) {
		c.fired = true
		configure(b)
	}
	return c
}

// ElseIf is evaluated only while the chain has not fired.
func (c *Chain) ElseIf(cond Condition, configure func(*Builder)) *Chain {
	if c.builder.err != nil || c.fired {
		return c
	}
	if cond == nil {
		c.builder.fail(fmt.Errorf("label: elseif requires a condition"))
		return c
	}
	if configure == nil {
		c.builder.fail(fmt.Errorf("label: elseif requires a configure callback"))
		return c
	}
	if cond(c.builder.context) {
		c.fired = true
		configure(c.builder)
	}
	return c
}

// Else runs configure when no earlier branch fired and ends the chain.
func (c *Chain) Else(configure func(*Builder)) *Builder {
	if c.builder.err != nil {
		return c.builder
	}
	if configure == nil {
		return c.builder.fail(fmt.Errorf("label: else requires a configure callback"))
	}
	if !c.fired {
		c.fired = true
		configure(c.builder)
	}
	return c.builder
}

// End closes the chain without an else branch.
func (c *Chain) End() *Builder { return c.builder }

// Fired reports whether some branch of the chain has run.
func (c *Chain) Fired() bool { return c.fired }

// For invokes configure for i from start (inclusive) to end
// (exclusive), in order.
func (b *Builder) For(start, end int, configure func(*Builder, int)) *Builder {
	if b.err != nil {
		return b
	}
	if configure == nil {
		return b.fail(fmt.Errorf("label: for requires a configure callback"))
	}
	for i := start; i < end; i++ {
		configure(b, i)
		if b.err != nil {
			break
		}
	}
	return b
}

// ForEach invokes configure for every item in order. A nil slice is a
// contract violation; an empty one simply adds nothing.
func ForEach[T any](b *Builder, items []T, configure func(*Builder, T)) *Builder {
	if b.err != nil {
		return b
	}
	if items == nil {
		return b.fail(fmt.Errorf("label: foreach requires a non-nil item slice"))
	}
	if configure == nil {
		return b.fail(fmt.Errorf("label: foreach requires a configure callback"))
	}
	for _, item := range items {
		configure(b, item)
		if b.err != nil {
			break
		}
	}
	return b
}
