package ringq

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON produces a JSON array of the queue's values, front to
// back. Nil queues marshal as an empty array.
func (q *Queue) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	_ = buf.WriteByte('[')

	first := true
	for v := range q.Seq() {
		if !first {
			_ = buf.WriteByte(',')
		}
		first = false

		out, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(out)
	}

	_ = buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON array of strings and appends each value
// to the back of the queue. Existing elements are kept. If the input
// is not an array of strings, the queue is left unchanged.
func (q *Queue) UnmarshalJSON(in []byte) error {
	var values []string
	if err := json.Unmarshal(in, &values); err != nil {
		return err
	}

	for _, v := range values {
		q.InsertTail(v)
	}
	return nil
}
