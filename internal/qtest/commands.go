package qtest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tychoish/fun/ers"

	"github.com/tychoish/ringq"
)

// randomKeyword, given as the value to an insert command, produces a
// random lowercase string for each element.
const randomKeyword = "RAND"

type command struct {
	name  string
	usage string
	help  string
	run   func(h *Harness, args []string) error
}

func (h *Harness) register() {
	h.order = []*command{
		{name: "new", help: "Create a new queue and make it current", run: (*Harness).doNew},
		{name: "free", help: "Free the current queue", run: (*Harness).doFree},
		{name: "prev", help: "Switch to the previous queue", run: (*Harness).doPrev},
		{name: "next", help: "Switch to the next queue", run: (*Harness).doNext},
		{name: "ih", usage: "str [n]", help: "Insert str at the head n times (RAND for random values)", run: insert(true)},
		{name: "it", usage: "str [n]", help: "Insert str at the tail n times (RAND for random values)", run: insert(false)},
		{name: "rh", usage: "[str]", help: "Remove from the head, optionally checking the value", run: remove(true)},
		{name: "rt", usage: "[str]", help: "Remove from the tail, optionally checking the value", run: remove(false)},
		{name: "size", usage: "[n]", help: "Report the queue size n times", run: (*Harness).doSize},
		{name: "show", help: "Print every queue", run: (*Harness).doShow},
		{name: "dm", help: "Delete the middle element", run: (*Harness).doDeleteMid},
		{name: "dedup", help: "Delete every run of duplicate values (queue must be sorted)", run: (*Harness).doDedup},
		{name: "swap", help: "Swap every two adjacent elements", run: (*Harness).doSwap},
		{name: "reverse", help: "Reverse the queue", run: (*Harness).doReverse},
		{name: "reverseK", usage: "k", help: "Reverse every run of k elements", run: (*Harness).doReverseK},
		{name: "sort", help: "Sort the queue in ascending order", run: (*Harness).doSort},
		{name: "descend", help: "Remove every element followed by a greater or equal value", run: (*Harness).doDescend},
		{name: "merge", help: "Merge every (sorted) queue into the first one", run: (*Harness).doMerge},
		{name: "option", usage: "[name value]", help: "Show or set length, seed or strict", run: (*Harness).doOption},
		{name: "help", help: "Show the available commands", run: (*Harness).doHelp},
		{name: "quit", help: "Stop processing commands", run: (*Harness).doQuit},
	}

	h.cmds = make(map[string]*command, len(h.order))
	for _, cmd := range h.order {
		h.cmds[cmd.name] = cmd
	}
}

func noArgs(args []string) error {
	return ers.Whenf(len(args) != 0, "%w: takes no arguments, got %d", ErrInvalidArguments, len(args))
}

func parseCount(args []string, idx int) (int, error) {
	if len(args) <= idx {
		return 1, nil
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil || n < 1 {
		return 0, ers.Wrapf(ErrInvalidArguments, "count %q must be a positive integer", args[idx])
	}
	return n, nil
}

// queue returns the current context or ErrNoQueue.
func (h *Harness) queue() (*ringq.Context, error) {
	if h.current == nil {
		return nil, ErrNoQueue
	}
	return h.current, nil
}

// settle resynchronizes the current context's cached size and
// checks the structure of its queue. When expected is non-negative it
// must match the queue's size. The cached size is updated even when
// the check fails.
func (h *Harness) settle(ctx *ringq.Context, expected int) error {
	if actual := ctx.Sync(); expected >= 0 && actual != expected {
		return ers.Wrapf(ErrUnexpectedValue, "queue has %d elements, expected %d", actual, expected)
	}
	return ctx.Validate()
}

// mutate runs op against the current queue, then checks the result
// and prints the queue.
func (h *Harness) mutate(args []string, delta int, op func(q *ringq.Queue) error) error {
	if err := noArgs(args); err != nil {
		return err
	}
	ctx, err := h.queue()
	if err != nil {
		return err
	}

	before := ctx.Queue().Size()
	defer ctx.Sync()
	if err := op(ctx.Queue()); err != nil {
		return err
	}

	expected := -1
	if delta != 0 {
		expected = before + delta
	}
	if err := h.settle(ctx, expected); err != nil {
		return err
	}

	h.report()
	return nil
}

func (h *Harness) doNew(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	h.current = h.chain.Add(ringq.New())
	h.report()
	return nil
}

func (h *Harness) doFree(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	ctx, err := h.queue()
	if err != nil {
		return err
	}

	next := h.chain.Next(ctx)
	ctx.Queue().Free()
	h.chain.Remove(ctx)

	if next == ctx {
		next = nil
	}
	h.current = next
	h.report()
	return nil
}

func (h *Harness) doPrev(args []string) error { return h.move(args, h.chain.Prev) }
func (h *Harness) doNext(args []string) error { return h.move(args, h.chain.Next) }

func (h *Harness) move(args []string, step func(*ringq.Context) *ringq.Context) error {
	if err := noArgs(args); err != nil {
		return err
	}
	ctx, err := h.queue()
	if err != nil {
		return err
	}
	h.current = step(ctx)
	h.report()
	return nil
}

func insert(atHead bool) func(h *Harness, args []string) error {
	return func(h *Harness, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return ers.Wrap(ErrInvalidArguments, "expected a value and an optional count")
		}
		n, err := parseCount(args, 1)
		if err != nil {
			return err
		}
		ctx, err := h.queue()
		if err != nil {
			return err
		}

		q := ctx.Queue()
		before := q.Size()
		defer ctx.Sync()
		for i := 0; i < n; i++ {
			value := args[0]
			if value == randomKeyword {
				value = h.randomString()
			}

			var ok bool
			if atHead {
				ok = q.InsertHead(value)
			} else {
				ok = q.InsertTail(value)
			}
			if !ok {
				return ers.Wrapf(ErrOperationFailed, "insert of %q", value)
			}
		}

		if err := h.settle(ctx, before+n); err != nil {
			return err
		}
		h.report()
		return nil
	}
}

func remove(atHead bool) func(h *Harness, args []string) error {
	return func(h *Harness, args []string) error {
		if len(args) > 1 {
			return ers.Wrap(ErrInvalidArguments, "expected at most one value")
		}
		ctx, err := h.queue()
		if err != nil {
			return err
		}

		q := ctx.Queue()
		before := q.Size()
		buf := make([]byte, h.opts.StringLength)

		var elem *ringq.Element
		if atHead {
			elem = q.RemoveHead(buf)
		} else {
			elem = q.RemoveTail(buf)
		}
		if elem == nil {
			return ers.Wrap(ErrOperationFailed, "remove from empty queue")
		}
		defer elem.Release()
		defer ctx.Sync()

		removed := string(buf[:bytes.IndexByte(buf, 0)])
		if !strings.HasPrefix(elem.Value(), removed) {
			return ers.Wrapf(ErrUnexpectedValue, "copied %q from element %q", removed, elem.Value())
		}
		if len(args) == 1 && removed != args[0] {
			return ers.Wrapf(ErrUnexpectedValue, "removed %q, expected %q", removed, args[0])
		}

		if err := h.settle(ctx, before-1); err != nil {
			return err
		}
		fmt.Fprintf(h.out, "Removed %s from queue\n", removed)
		h.report()
		return nil
	}
}

func (h *Harness) doSize(args []string) error {
	n, err := parseCount(args, 0)
	if err != nil {
		return err
	}
	ctx, err := h.queue()
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		size := ctx.Queue().Size()
		if size != ctx.Size() {
			return ers.Wrapf(ringq.ErrSizeMismatch, "queue size %d differs from %d", size, ctx.Size())
		}
		fmt.Fprintf(h.out, "Queue size = %d\n", size)
	}
	return nil
}

func (h *Harness) doShow(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	for ctx := range h.chain.Contexts() {
		marker := " "
		if ctx == h.current {
			marker = "*"
		}
		fmt.Fprintf(h.out, "%sq %d: %s\n", marker, ctx.ID(), h.show(ctx))
	}
	return nil
}

func (h *Harness) doDeleteMid(args []string) error {
	return h.mutate(args, -1, func(q *ringq.Queue) error {
		return ers.If(!q.DeleteMid(), ers.Wrap(ErrOperationFailed, "delete middle of empty queue"))
	})
}

func (h *Harness) doDedup(args []string) error {
	return h.mutate(args, 0, func(q *ringq.Queue) error {
		if !q.DeleteDup() {
			return ers.Wrap(ErrOperationFailed, "dedup of empty queue")
		}

		prev, first := "", true
		for v := range q.Seq() {
			if !first && v == prev {
				return ers.Wrapf(ErrUnexpectedValue, "duplicate %q remains", v)
			}
			prev, first = v, false
		}
		return nil
	})
}

func (h *Harness) doSwap(args []string) error {
	return h.mutate(args, 0, func(q *ringq.Queue) error { q.Swap(); return nil })
}

func (h *Harness) doReverse(args []string) error {
	return h.mutate(args, 0, func(q *ringq.Queue) error { q.Reverse(); return nil })
}

func (h *Harness) doReverseK(args []string) error {
	if len(args) != 1 {
		return ers.Wrap(ErrInvalidArguments, "expected k")
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return ers.Wrapf(ErrInvalidArguments, "k %q is not an integer", args[0])
	}
	return h.mutate(nil, 0, func(q *ringq.Queue) error { q.ReverseK(k); return nil })
}

func (h *Harness) doSort(args []string) error {
	return h.mutate(args, 0, func(q *ringq.Queue) error {
		q.Sort()
		return ers.If(!q.IsSorted(), ers.Wrap(ErrUnexpectedValue, "queue is not sorted"))
	})
}

func (h *Harness) doDescend(args []string) error {
	return h.mutate(args, 0, func(q *ringq.Queue) error {
		n := q.Descend()
		if size := q.Size(); n != size {
			return ers.Wrapf(ErrUnexpectedValue, "descend reported %d but queue holds %d", n, size)
		}

		prev, first := "", true
		for v := range q.Seq() {
			if !first && strings.Compare(prev, v) <= 0 {
				return ers.Wrapf(ErrUnexpectedValue, "%q does not descend from %q", v, prev)
			}
			prev, first = v, false
		}
		return nil
	})
}

func (h *Harness) doMerge(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	if _, err := h.queue(); err != nil {
		return err
	}

	total := 0
	for ctx := range h.chain.Contexts() {
		total += ctx.Size()
	}

	n := h.chain.Merge()
	h.current = h.chain.First()

	if n != total {
		return ers.Wrapf(ErrUnexpectedValue, "merged %d elements, expected %d", n, total)
	}
	if !h.current.Queue().IsSorted() {
		return ers.Wrap(ErrUnexpectedValue, "merged queue is not sorted")
	}
	for ctx := range h.chain.Contexts() {
		if err := ctx.Validate(); err != nil {
			return err
		}
	}

	h.report()
	return nil
}

func (h *Harness) doOption(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintf(h.out, "length = %d\nseed = %d\nstrict = %t\n", h.opts.StringLength, h.opts.Seed, h.opts.Strict)
		return nil
	case 2:
	default:
		return ers.Wrap(ErrInvalidArguments, "expected a name and a value")
	}

	name, value := args[0], args[1]
	switch name {
	case "length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 2 {
			return ers.Wrapf(ErrInvalidArguments, "length %q must be an integer of at least 2", value)
		}
		h.opts.StringLength = n
	case "seed":
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return ers.Wrapf(ErrInvalidArguments, "seed %q: %v", value, err)
		}
		h.opts.Seed = seed
		h.src.Seed(seed, seed)
	case "strict":
		strict, err := strconv.ParseBool(value)
		if err != nil {
			return ers.Wrapf(ErrInvalidArguments, "strict %q: %v", value, err)
		}
		h.opts.Strict = strict
	default:
		return ers.Wrapf(ErrInvalidArguments, "unknown option %q", name)
	}

	h.log.Debug("option changed", "name", name, "value", value)
	return nil
}

func (h *Harness) doHelp(args []string) error {
	for _, cmd := range h.order {
		fmt.Fprintf(h.out, "%-10s %-14s | %s\n", cmd.name, cmd.usage, cmd.help)
	}
	return nil
}

func (h *Harness) doQuit(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	h.done = true
	return nil
}
