package ringq

import (
	"strings"

	"github.com/tychoish/ringq/ring"
)

// Element holds one value of a queue. Elements are only created by
// the queue's insert operations, and are destroyed by Release.
//
// Elements returned by RemoveHead and RemoveTail are detached from
// their queue and belong to the caller, who should Release them when
// done.
type Element struct {
	value    string
	list     ring.Link[*Element]
	released bool
}

func newElement(s string) *Element {
	e := &Element{value: strings.Clone(s)}
	e.list.Bind(e)
	return e
}

func entry(l *ring.Link[*Element]) *Element { return l.Entry() }

// Value returns the element's value. Released and nil elements have
// empty values.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	return e.value
}

// String returns the value of the element.
func (e *Element) String() string { return e.Value() }

// Ok reports whether the element is non-nil and has not been
// released.
func (e *Element) Ok() bool { return e != nil && !e.released }

// Release destroys the element: if it is still a member of a queue
// it is unlinked, and its value is dropped. Release is safe to call on
// nil or already-released elements.
func (e *Element) Release() {
	if !e.Ok() {
		return
	}
	if !e.list.Detached() {
		e.list.Unlink()
	}
	e.value = ""
	e.released = true
}

// copyTo writes as much of the value as fits into buf, keeping a
// trailing NUL byte. Nothing is written to an empty buf.
func (e *Element) copyTo(buf []byte) {
	if len(buf) == 0 {
		return
	}
	n := copy(buf[:len(buf)-1], e.value)
	buf[n] = 0
}
