package memory

import (
	"strings"
	"testing"
)

func TestPoolHandsOutEmptyBuffers(t *testing.T) {
	p := NewBufferPool()

	buf := p.Get()
	buf.WriteString("leftover")
	p.Put(buf)

	again := p.Get()
	if again.Len() != 0 {
		t.Errorf("reused buffer must be reset, has %d bytes", again.Len())
	}
}

func TestPoolDropsOversizedBuffers(t *testing.T) {
	p := NewBufferPool()

	buf := p.Get()
	buf.WriteString(strings.Repeat("x", maxRetainedBytes+1))
	p.Put(buf) // must not panic, buffer is simply discarded

	p.Put(nil) // nil is tolerated
}
