package convert

import (
	"fmt"
)

// BackendError describes a failed backend invocation.
type BackendError struct {
	Backend string
	Op      string
	Err     error
	Stderr  string
}

func (e *BackendError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s %s: %v: %s", e.Backend, e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
