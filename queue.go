// Package ringq provides a double-ended queue of strings built on an
// intrusive circular linked list, along with a set of in-place
// structural algorithms over the queue: middle deletion, duplicate
// run removal, pairwise swaps, full and k-group reversal, merge sort,
// the descending filter, and k-way merging of many queues.
//
// Queues are not safe for concurrent use. Callers that share a queue
// between goroutines must serialize all access, including Size.
//
// All operations tolerate nil queues and treat them as having nothing
// to do: boolean operations return false, counts return zero and
// removals return nil.
package ringq

import (
	"iter"
	"strings"

	"github.com/tychoish/ringq/ring"
)

// Queue is a sequence of string values rooted at a sentinel head.
// The zero value is an empty queue ready to use.
type Queue struct {
	head ring.Link[*Element]
}

// New produces an empty queue.
func New() *Queue { q := &Queue{}; q.root(); return q }

func (q *Queue) root() *ring.Link[*Element] {
	if q.head.Next() == nil {
		q.head.Init()
	}
	return &q.head
}

func (q *Queue) empty() bool { return q == nil || q.root().Empty() }

// Free releases every element in the queue. The queue itself remains
// valid and empty.
func (q *Queue) Free() {
	if q == nil {
		return
	}
	for it := range q.root().Links() {
		entry(it).Release()
	}
	q.head.Init()
}

// InsertHead adds a copy of s to the front of the queue. Returns
// false if the queue is nil.
func (q *Queue) InsertHead(s string) bool {
	if q == nil {
		return false
	}
	newElement(s).list.InsertAfter(q.root())
	return true
}

// InsertTail adds a copy of s to the back of the queue. Returns
// false if the queue is nil.
func (q *Queue) InsertTail(s string) bool {
	if q == nil {
		return false
	}
	newElement(s).list.InsertBefore(q.root())
	return true
}

// RemoveHead detaches the first element of the queue and returns
// it, or nil if the queue is nil or empty. The element is not
// released.
//
// When sp is not empty, the removed value is copied into it: at most
// len(sp)-1 bytes of the value followed by a NUL byte, truncating
// values that do not fit.
func (q *Queue) RemoveHead(sp []byte) *Element {
	if q.empty() {
		return nil
	}
	return q.remove(q.head.Next(), sp)
}

// RemoveTail detaches the last element of the queue and returns it,
// with the same semantics as RemoveHead.
func (q *Queue) RemoveTail(sp []byte) *Element {
	if q.empty() {
		return nil
	}
	return q.remove(q.head.Prev(), sp)
}

func (q *Queue) remove(it *ring.Link[*Element], sp []byte) *Element {
	it.Unlink()
	e := entry(it)
	e.copyTo(sp)
	return e
}

// Size counts the elements of the queue. This is an O(n) operation.
func (q *Queue) Size() int {
	if q.empty() {
		return 0
	}
	return q.head.Len()
}

// Front returns the first element, or nil if there is none.
func (q *Queue) Front() *Element {
	if q.empty() {
		return nil
	}
	return entry(q.head.Next())
}

// Back returns the last element, or nil if there is none.
func (q *Queue) Back() *Element {
	if q.empty() {
		return nil
	}
	return entry(q.head.Prev())
}

// DeleteMid releases the middle element of the queue. Two cursors
// step in from both ends until they meet or are adjacent, and the
// forward cursor is released: for even sizes this is the element at
// index size/2-1. Returns false for nil or empty queues.
func (q *Queue) DeleteMid() bool {
	if q.empty() {
		return false
	}

	fwd, bwd := q.head.Next(), q.head.Prev()
	for fwd != bwd && fwd.Next() != bwd {
		fwd, bwd = fwd.Next(), bwd.Prev()
	}

	entry(fwd).Release()
	return true
}

// DeleteDup releases every element whose value is shared with an
// adjacent element, so that each run of two or more equal values is
// removed entirely. The queue must already be sorted; unsorted input
// only has adjacent runs removed. Returns false for nil or empty
// queues.
func (q *Queue) DeleteDup() bool {
	if q.empty() {
		return false
	}

	for it := q.head.Next(); it != &q.head; {
		next := it.Next()
		if next == &q.head || entry(next).value != entry(it).value {
			it = next
			continue
		}

		for next != &q.head && entry(next).value == entry(it).value {
			after := next.Next()
			entry(next).Release()
			next = after
		}

		entry(it).Release()
		it = next
	}

	return true
}

// Swap exchanges every two adjacent elements, front to back. A final
// unpaired element stays in place.
func (q *Queue) Swap() {
	if q.empty() {
		return
	}

	for cur := q.head.Next(); cur != &q.head && cur.Next() != &q.head; cur = cur.Next() {
		cur.MoveToFront(cur.Next())
	}
}

// Reverse reverses the order of the queue in place.
func (q *Queue) Reverse() {
	if q.empty() {
		return
	}
	reverse(&q.head)
}

func reverse(head *ring.Link[*Element]) {
	for it := range head.Links() {
		it.MoveToFront(head)
	}
}

// ReverseK reverses each consecutive run of k elements in place. A
// trailing run shorter than k keeps its order, and values of k less
// than two leave the queue unchanged.
func (q *Queue) ReverseK(k int) {
	if q.empty() || k <= 1 {
		return
	}

	var tmp ring.Link[*Element]
	tmp.Init()

	start := &q.head
	count := 0
	for it := range q.head.Links() {
		count++
		if count < k {
			continue
		}

		next := it.Next()
		start.CutPosition(&tmp, it)
		reverse(&tmp)
		tmp.SpliceInit(start)

		start = next.Prev()
		count = 0
	}
}

// Sort orders the queue by value, ascending, comparing
// lexicographically byte by byte.
func (q *Queue) Sort() {
	if q.empty() {
		return
	}
	ring.Sort(&q.head, lessElement)
}

func lessElement(a, b *Element) bool { return strings.Compare(a.value, b.value) < 0 }

// IsSorted reports whether the queue is in ascending order. Nil and
// empty queues are sorted.
func (q *Queue) IsSorted() bool { return q.empty() || ring.IsSorted(&q.head, lessElement) }

// Descend releases every element that has an element with a
// strictly greater value somewhere after it, as well as elements
// equal to a later survivor. The result is strictly decreasing. It
// returns the resulting size, and zero for nil or empty queues.
func (q *Queue) Descend() int {
	if q.empty() {
		return 0
	}

	top := q.head.Prev()
	for top.Prev() != &q.head {
		prev := top.Prev()
		if strings.Compare(entry(prev).value, entry(top).value) <= 0 {
			entry(prev).Release()
			continue
		}
		top = prev
	}

	return q.Size()
}

// Seq iterates over the values of the queue front to back.
func (q *Queue) Seq() iter.Seq[string] {
	return func(yield func(string) bool) {
		if q.empty() {
			return
		}
		for e := range q.head.Entries() {
			if !yield(e.value) {
				return
			}
		}
	}
}

// Slice exports the values of the queue to a slice.
func (q *Queue) Slice() []string {
	out := make([]string, 0, q.Size())
	for v := range q.Seq() {
		out = append(out, v)
	}
	return out
}
