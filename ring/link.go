// Package ring provides an intrusive circular doubly-linked list
// primitive.
//
// A Link is embedded in the record it positions, and holds a
// back-reference to that record (the entry) so that walking the ring
// recovers records without any offset arithmetic. A list is rooted at
// a sentinel Link (the head) that carries the zero entry and is never
// yielded by iteration. The zero-valued Link is NOT ready for use: call
// Init or Bind before linking it.
//
// None of the operations allocate, and none are safe for concurrent
// use.
package ring

import "iter"

// Link is one position in a circular ring.
type Link[T any] struct {
	next  *Link[T]
	prev  *Link[T]
	entry T
}

// New produces a detached self-circular link for the entry.
func New[T any](entry T) *Link[T] { return (&Link[T]{}).Bind(entry) }

// Init makes the link self-circular. For a head this empties the
// ring without touching any of the former members.
func (l *Link[T]) Init() *Link[T] { l.next, l.prev = l, l; return l }

// Bind sets the entry for the link and initializes it.
func (l *Link[T]) Bind(entry T) *Link[T] { l.entry = entry; return l.Init() }

// Entry returns the record that embeds the link. Heads return the
// zero value.
func (l *Link[T]) Entry() T { return l.entry }

// Next returns the following link, which is the head at the end of a
// ring.
func (l *Link[T]) Next() *Link[T] { return l.next }

// Prev returns the preceding link, which is the head at the
// beginning of a ring.
func (l *Link[T]) Prev() *Link[T] { return l.prev }

// Empty reports whether the head has no other members.
func (l *Link[T]) Empty() bool { return l.next == l }

// Singular reports whether the head has exactly one other member.
func (l *Link[T]) Singular() bool { return !l.Empty() && l.next == l.prev }

// Detached reports whether the link is self-circular. For a head this
// is the same as Empty.
func (l *Link[T]) Detached() bool { return l.next == l && l.prev == l }

// InsertAfter places the lone link l immediately after at.
func (l *Link[T]) InsertAfter(at *Link[T]) { l.add(at, at.next) }

// InsertBefore places the lone link l immediately before at. Called
// with a head, this appends to the tail of the ring.
func (l *Link[T]) InsertBefore(at *Link[T]) { l.add(at.prev, at) }

func (l *Link[T]) add(prev, next *Link[T]) {
	next.prev = l
	l.next = next
	l.prev = prev
	prev.next = l
}

// Unlink removes the link from its ring, joining its neighbors, and
// leaves it self-circular.
func (l *Link[T]) Unlink() {
	l.prev.next = l.next
	l.next.prev = l.prev
	l.Init()
}

// MoveToFront unlinks l and reinserts it right after head.
func (l *Link[T]) MoveToFront(head *Link[T]) { l.Unlink(); l.InsertAfter(head) }

// MoveToBack unlinks l and reinserts it right before head.
func (l *Link[T]) MoveToBack(head *Link[T]) { l.Unlink(); l.InsertBefore(head) }

// CutPosition moves the leading members of the ring rooted at l, up
// to and including entry, into dst, which is (re)initialized as a
// ring holding exactly those members. Any previous contents of dst
// are discarded (not unlinked), so dst should be empty.
//
// When entry is the head itself dst is left empty. The operation
// does nothing when the ring is empty, or when it is singular and
// entry is neither its member nor the head.
func (l *Link[T]) CutPosition(dst, entry *Link[T]) {
	switch {
	case l.Empty():
		return
	case l.Singular() && l.next != entry && l != entry:
		return
	case entry == l:
		dst.Init()
		return
	}

	first := l.next

	dst.next = first
	first.prev = dst
	l.next = entry.next
	l.next.prev = l
	dst.prev = entry
	entry.next = dst
}

// SpliceInit moves every member of the ring rooted at l to
// immediately after at, and leaves l empty.
func (l *Link[T]) SpliceInit(at *Link[T]) {
	if l.Empty() {
		return
	}
	l.splice(at, at.next)
	l.Init()
}

// SpliceTailInit moves every member of the ring rooted at l to
// immediately before at, and leaves l empty. Splicing before a head
// appends to that ring.
func (l *Link[T]) SpliceTailInit(at *Link[T]) {
	if l.Empty() {
		return
	}
	l.splice(at.prev, at)
	l.Init()
}

func (l *Link[T]) splice(prev, next *Link[T]) {
	first, last := l.next, l.prev

	first.prev = prev
	prev.next = first
	last.next = next
	next.prev = last
}

// Len counts the members of the ring rooted at l. This is an O(n)
// operation.
func (l *Link[T]) Len() (count int) {
	for it := l.next; it != l; it = it.next {
		count++
	}
	return
}

// Links iterates over the members of the ring front to back. The
// successor is captured before each yield, so the yielded link may be
// unlinked (or moved elsewhere) by the loop body.
func (l *Link[T]) Links() iter.Seq[*Link[T]] {
	return func(yield func(*Link[T]) bool) {
		for it, next := l.next, l.next.next; it != l; it, next = next, next.next {
			if !yield(it) {
				return
			}
		}
	}
}

// Backward iterates over the members of the ring back to front, with
// the same removal guarantees as Links.
func (l *Link[T]) Backward() iter.Seq[*Link[T]] {
	return func(yield func(*Link[T]) bool) {
		for it, prev := l.prev, l.prev.prev; it != l; it, prev = prev, prev.prev {
			if !yield(it) {
				return
			}
		}
	}
}

// Entries iterates over the entries of the ring members, front to
// back.
func (l *Link[T]) Entries() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := range l.Links() {
			if !yield(it.entry) {
				return
			}
		}
	}
}
