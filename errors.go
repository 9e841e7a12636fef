package ringq

import (
	"github.com/tychoish/fun/ers"

	"github.com/tychoish/ringq/ring"
)

// ErrCorruptRing is returned (wrapped) by Validate when a queue's
// links no longer form a single consistent ring.
const ErrCorruptRing ers.Error = ers.Error("corrupt ring")

// ErrSizeMismatch is returned (wrapped) when a queue context's
// cached size disagrees with the number of elements in its queue.
const ErrSizeMismatch ers.Error = ers.Error("cached size mismatch")

// Validate walks the queue and confirms that the links agree in both
// directions and that no released element remains linked. Nil queues
// are valid.
//
// Any link reached a second time fails the back-link check, so the
// walk always terminates.
func (q *Queue) Validate() error {
	if q == nil {
		return nil
	}
	return validate(q.root())
}

func validate(head *ring.Link[*Element]) error {
	idx := 0
	for it := head; ; idx++ {
		next := it.Next()
		switch {
		case next == nil:
			return ers.Wrapf(ErrCorruptRing, "link %d is not attached", idx)
		case next.Prev() != it:
			return ers.Wrapf(ErrCorruptRing, "link %d does not point back to its predecessor", idx+1)
		case next == head:
			return nil
		}

		if e := entry(next); !e.Ok() {
			return ers.Wrapf(ErrCorruptRing, "element %d is released but still linked", idx)
		}

		it = next
	}
}
