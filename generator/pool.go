package generator

import (
	"bytes"
	"sync"
)

// Unformatted output per part, rounded up from the Binance and KuCoin
// descriptions: an endpoint with its struct and constructor renders to a
// little under 2KB, a group node to about 400 bytes, and every header adds
// one line to each endpoint.
const (
	fileBytes     = 512
	endpointBytes = 2048
	groupBytes    = 512
	headerBytes   = 128
)

// Buffer tiers. Most descriptions fit the small one.
const (
	smallBufferSize  = 16 * 1024
	mediumBufferSize = 64 * 1024
	largeBufferSize  = 256 * 1024

	// maxPooledBuffer keeps one huge description from pinning memory.
	maxPooledBuffer = 1 << 20
)

var (
	smallBufferPool  = newBufferPool(smallBufferSize)
	mediumBufferPool = newBufferPool(mediumBufferSize)
	largeBufferPool  = newBufferPool(largeBufferSize)
)

func newBufferPool(size int) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			return bytes.NewBuffer(make([]byte, 0, size))
		},
	}
}

// estimateSize predicts the rendered size of file before formatting.
func estimateSize(file *File) int {
	size := fileBytes + groupBytes // the root type
	for _, t := range file.Types {
		if t.Endpoint == nil {
			size += groupBytes
			continue
		}
		headers := len(t.Endpoint.ClientHeaders) + len(t.Endpoint.RequestHeaders)
		size += endpointBytes + headers*headerBytes
	}
	return size
}

// getTemplateBuffer returns an empty buffer with room for size bytes.
func getTemplateBuffer(size int) *bytes.Buffer {
	var buf *bytes.Buffer
	switch {
	case size <= smallBufferSize:
		buf = smallBufferPool.Get().(*bytes.Buffer)
	case size <= mediumBufferSize:
		buf = mediumBufferPool.Get().(*bytes.Buffer)
	case size <= largeBufferSize:
		buf = largeBufferPool.Get().(*bytes.Buffer)
	default:
		return bytes.NewBuffer(make([]byte, 0, size))
	}
	buf.Reset()
	buf.Grow(size)
	return buf
}

// putTemplateBuffer returns buf to the pool matching its capacity, which
// may have grown past the tier it came from.
func putTemplateBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	switch c := buf.Cap(); {
	case c > maxPooledBuffer:
		// dropped
	case c >= largeBufferSize:
		largeBufferPool.Put(buf)
	case c >= mediumBufferSize:
		mediumBufferPool.Put(buf)
	default:
		smallBufferPool.Put(buf)
	}
}
