package main

import (
	"bytes"
	"regexp"
	"sync"
)

var serverURLPattern = regexp.MustCompile(`Server running at (\S+)`)

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) serverURL() string {
	m := serverURLPattern.FindStringSubmatch(b.String())
	if m == nil {
		return ""
	}
	return m[1]
}
