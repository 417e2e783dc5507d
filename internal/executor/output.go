package executor

import (
	"bytes"
)

// binaryPlaceholder replaces stdout that looks like binary data.
const binaryPlaceholder = "[Binary Content]"

// headCollector keeps the first maxBytes of a stream. Used for stdout, where
// the renderer prints progress and the beginning is what matters. Output with
// a NUL byte in the first sampleSize bytes is reported as binary.
type headCollector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	isBinary  bool

	bytesChecked int
	sampleSize   int
}

func newHeadCollector(maxBytes int, sampleSize int) *headCollector {
	return &headCollector{
		maxBytes:   maxBytes,
		sampleSize: sampleSize,
	}
}

func (c *headCollector) Write(p []byte) (int, error) {
	if c.isBinary {
		return len(p), nil
	}

	if c.bytesChecked < c.sampleSize {
		sample := p[:min(len(p), c.sampleSize-c.bytesChecked)]
		if isBinaryContent(sample) {
			c.isBinary = true
			c.truncated = true
			return len(p), nil
		}
		c.bytesChecked += len(sample)
	}

	room := c.maxBytes - c.buffer.Len()
	if room <= 0 {
		c.truncated = true
		return len(p), nil
	}
	if len(p) > room {
		c.buffer.Write(p[:room])
		c.truncated = true
		return len(p), nil
	}
	c.buffer.Write(p)
	return len(p), nil
}

func (c *headCollector) String() string {
	if c.isBinary {
		return binaryPlaceholder
	}
	return c.buffer.String()
}

func (c *headCollector) Truncated() bool {
	return c.truncated
}

// tailCollector keeps the last maxBytes of a stream. Used for stderr: a Python
// traceback ends with the exception line the failure is classified by, and
// warnings printed before it may be arbitrarily long or contain NUL bytes.
// Content is never masked as binary.
type tailCollector struct {
	buf       []byte
	maxBytes  int
	truncated bool
}

func newTailCollector(maxBytes int) *tailCollector {
	return &tailCollector{maxBytes: maxBytes}
}

func (c *tailCollector) Write(p []byte) (int, error) {
	n := len(p)
	if c.maxBytes <= 0 {
		c.truncated = c.truncated || n > 0
		return n, nil
	}
	if len(p) >= c.maxBytes {
		c.truncated = c.truncated || len(c.buf) > 0 || len(p) > c.maxBytes
		c.buf = append(c.buf[:0], p[len(p)-c.maxBytes:]...)
		return n, nil
	}

	c.buf = append(c.buf, p...)
	if over := len(c.buf) - c.maxBytes; over > 0 {
		c.buf = append(c.buf[:0], c.buf[over:]...)
		c.truncated = true
	}
	return n, nil
}

func (c *tailCollector) String() string {
	return string(c.buf)
}

func (c *tailCollector) Truncated() bool {
	return c.truncated
}
