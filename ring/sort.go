package ring

// Sort orders the members of the ring rooted at head from low to
// high according to less, using a top-down merge sort over the links
// themselves. No links are allocated, and the entries never move
// between links.
//
// While sorting, the ring is opened into a nil-terminated span;
// the circular structure (and every prev pointer) is rebuilt from
// the head once the span is sorted.
func Sort[T any](head *Link[T], less func(a, b T) bool) {
	if head.Empty() || head.Singular() {
		return
	}

	first, last := head.next, head.prev
	defer head.restore()

	last.next = nil
	first.prev = nil
	head.next = divide(first, last, less)
}

// restore walks the forward chain from the head, fixing up each
// prev pointer, and closes the ring back onto the head.
func (l *Link[T]) restore() {
	it := l
	for ; it.next != nil; it = it.next {
		it.next.prev = it
	}
	it.next = l
	l.prev = it
}

func divide[T any](first, last *Link[T], less func(a, b T) bool) *Link[T] {
	if first == last {
		return first
	}

	fwd, bwd := first, last
	for fwd != bwd && fwd.next != bwd {
		fwd, bwd = fwd.next, bwd.prev
	}
	if fwd == bwd {
		bwd = bwd.next
	}

	fwd.next = nil
	bwd.prev = nil

	left := divide(first, fwd, less)
	right := divide(bwd, last, less)

	return mergeTwo(left, right, less)
}

// mergeTwo merges two nil-terminated sorted spans by their next
// pointers only; prev pointers are left stale. Ties take from right.
func mergeTwo[T any](left, right *Link[T], less func(a, b T) bool) *Link[T] {
	var out *Link[T]
	tail := &out

	for left != nil && right != nil {
		if less(left.entry, right.entry) {
			*tail = left
			left = left.next
		} else {
			*tail = right
			right = right.next
		}
		tail = &(*tail).next
	}

	if left != nil {
		*tail = left
	} else {
		*tail = right
	}

	return out
}

// IsSorted reports whether no member of the ring rooted at head is
// less than its predecessor. Empty and singular rings are sorted.
func IsSorted[T any](head *Link[T], less func(a, b T) bool) bool {
	for it := head.next; it != head && it.next != head; it = it.next {
		if less(it.next.entry, it.entry) {
			return false
		}
	}
	return true
}
