package model

import (
	"strings"
	"time"
)

// Change is an immutable commit record read from an origin.
type Change struct {
	Ref     Reference
	Author  Author
	Message string
	// Date carries the original timezone offset of the commit
	Date   time.Time
	Labels map[string]string
}

// FirstLine returns the first line of the commit message, used in
// change digests.
func (c Change) FirstLine() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}
