package pins

import (
	"bytes"
	"sync"
)

// LogBuffer keeps the most recent lines written to it. It is safe for
// concurrent use and is what the terminal backend renders as a pane.
type LogBuffer struct {
	mu      sync.RWMutex
	lines   []string
	size    int
	index   int
	count   int
	partial []byte
	changed func()
}

func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{
		lines: make([]string, size),
		size:  size,
	}
}

// Write splits p into lines; an unterminated tail is held until the next write.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	data := append(lb.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		lb.add(string(bytes.TrimRight(data[:i], "\r")))
		data = data[i+1:]
	}
	lb.partial = append(lb.partial[:0:0], data...)
	notify := lb.changed
	lb.mu.Unlock()

	if notify != nil {
		notify()
	}
	return len(p), nil
}

func (lb *LogBuffer) add(line string) {
	lb.lines[lb.index] = line
	lb.index = (lb.index + 1) % lb.size
	if lb.count < lb.size {
		lb.count++
	}
}

// Recent returns up to max lines, oldest first.
func (lb *LogBuffer) Recent(max int) []string {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	n := lb.count
	if max > 0 && max < n {
		n = max
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = lb.lines[(lb.index-1-i+lb.size)%lb.size]
	}
	return out
}

func (lb *LogBuffer) onChange(f func()) {
	lb.mu.Lock()
	lb.changed = f
	lb.mu.Unlock()
}
