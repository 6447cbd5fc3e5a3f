package command

import "sync"

// Buffer is a Queue that collects commands until the consumer drains them.
// Push and Drain may be called from different goroutines.
type Buffer struct {
	mu      sync.Mutex
	pending []Command
}

var _ Queue = (*Buffer)(nil)

// NewBuffer returns a buffer with room for capacity commands before it grows.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{pending: make([]Command, 0, capacity)}
}

// Push implements Queue.
func (b *Buffer) Push(cmd Command) {
	b.mu.Lock()
	b.pending = append(b.pending, cmd)
	b.mu.Unlock()
}

// Len returns the number of pending commands.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Drain returns all pending commands in push order and empties the buffer.
func (b *Buffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}
	out := b.pending
	b.pending = make([]Command, 0, cap(out))
	return out
}
