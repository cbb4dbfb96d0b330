// Package memory pools the buffers used to render merged pagination
// results. Auto-paginated responses can run to megabytes, and every tool
// call re-encodes its result as text, so reuse keeps allocation pressure
// flat under concurrent invocations.
package memory

import (
	"bytes"
	"sync"
)

// maxRetainedBytes drops oversized buffers instead of pooling them, so one
// huge merged page trail does not pin memory for the process lifetime.
const maxRetainedBytes = 1 << 20

// BufferPool hands out reset bytes.Buffers for result encoding.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a ready-to-use pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &bytes.Buffer{}
			},
		},
	}
}

// Get retrieves an empty buffer from the pool.
func (p *BufferPool) Get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer for reuse unless it has grown past the retention
// cap.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxRetainedBytes {
		return
	}
	p.pool.Put(buf)
}
