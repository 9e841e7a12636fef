package ringq

import (
	"iter"

	"github.com/tychoish/fun/ers"

	"github.com/tychoish/ringq/ring"
)

// Context pairs a queue with a cached element count, and is the unit
// that a Chain merges. The cached size is maintained by the Chain's
// operations; callers that mutate the queue directly should call
// Sync afterwards.
type Context struct {
	q     *Queue
	size  int
	id    int
	chain ring.Link[*Context]
}

// Queue returns the context's queue, or nil for a nil context.
func (c *Context) Queue() *Queue {
	if c == nil {
		return nil
	}
	return c.q
}

// Size returns the cached number of elements in the queue.
func (c *Context) Size() int {
	if c == nil {
		return 0
	}
	return c.size
}

// ID returns the identifier assigned when the context was added to
// its chain. Nil contexts return -1.
func (c *Context) ID() int {
	if c == nil {
		return -1
	}
	return c.id
}

// Sync recomputes the cached size from the queue and returns it.
func (c *Context) Sync() int {
	if c == nil {
		return 0
	}
	c.size = c.q.Size()
	return c.size
}

// Validate returns an error wrapping ErrSizeMismatch when the cached
// size does not match the queue, and any error from the queue's own
// Validate. Nil contexts are valid.
func (c *Context) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.q.Validate(); err != nil {
		return ers.Wrapf(err, "queue %d", c.id)
	}
	if actual := c.q.Size(); actual != c.size {
		return ers.Wrapf(ErrSizeMismatch, "queue %d caches %d elements but holds %d", c.id, c.size, actual)
	}
	return nil
}

// Chain is a ring of queue contexts. The zero value is an empty
// chain ready to use.
type Chain struct {
	head   ring.Link[*Context]
	nextID int
}

// NewChain produces an empty chain.
func NewChain() *Chain { c := &Chain{}; c.root(); return c }

func (c *Chain) root() *ring.Link[*Context] {
	if c.head.Next() == nil {
		c.head.Init()
	}
	return &c.head
}

func (c *Chain) empty() bool { return c == nil || c.root().Empty() }

// Add appends a context for q to the chain, caching its current
// size. A nil q is replaced by a new empty queue. Adding to a nil
// chain returns nil.
func (c *Chain) Add(q *Queue) *Context {
	if c == nil {
		return nil
	}
	if q == nil {
		q = New()
	}

	ctx := &Context{q: q, size: q.Size(), id: c.nextID}
	c.nextID++
	ctx.chain.Bind(ctx)
	ctx.chain.InsertBefore(c.root())
	return ctx
}

// Remove unlinks the context from the chain. The context's queue is
// left untouched.
func (c *Chain) Remove(ctx *Context) bool {
	if c.empty() || ctx == nil || ctx.chain.Detached() {
		return false
	}
	ctx.chain.Unlink()
	return true
}

// Len returns the number of contexts in the chain.
func (c *Chain) Len() int {
	if c.empty() {
		return 0
	}
	return c.head.Len()
}

// First returns the first context, or nil for an empty chain.
func (c *Chain) First() *Context {
	if c.empty() {
		return nil
	}
	return c.head.Next().Entry()
}

// Next returns the context after ctx, wrapping around at the end of
// the chain.
func (c *Chain) Next(ctx *Context) *Context { return c.step(ctx, (*ring.Link[*Context]).Next) }

// Prev returns the context before ctx, wrapping around at the start
// of the chain.
func (c *Chain) Prev(ctx *Context) *Context { return c.step(ctx, (*ring.Link[*Context]).Prev) }

func (c *Chain) step(ctx *Context, move func(*ring.Link[*Context]) *ring.Link[*Context]) *Context {
	if c.empty() || ctx == nil || ctx.chain.Detached() {
		return nil
	}
	it := move(&ctx.chain)
	if it == &c.head {
		it = move(it)
	}
	return it.Entry()
}

// Contexts iterates over the contexts of the chain in order.
func (c *Chain) Contexts() iter.Seq[*Context] {
	return func(yield func(*Context) bool) {
		if c.empty() {
			return
		}
		for ctx := range c.head.Entries() {
			if !yield(ctx) {
				return
			}
		}
	}
}

// Merge combines the queues of every context into the queue of the
// first context, in ascending order, and returns the combined size.
// Every queue must already be sorted. Afterwards the other contexts
// hold empty queues with a cached size of zero.
//
// A chain with a single context returns its cached size without
// touching the queue, and nil or empty chains return zero.
func (c *Chain) Merge() int {
	if c.empty() {
		return 0
	}

	primary := c.First()
	if c.head.Singular() {
		return primary.size
	}

	for donor := range c.head.Entries() {
		if donor == primary || donor.q == primary.q {
			continue
		}
		donor.q.root().SpliceInit(primary.q.root())
		primary.size += donor.size
		donor.size = 0
	}

	primary.q.Sort()
	return primary.size
}
