// Package message holds the process-wide scratch message.
package message

import "sync"

// Board stores a single mutable text value. It is not persisted.
type Board struct {
	mu   sync.RWMutex
	text string
}

// NewBoard creates a board holding initial.
func NewBoard(initial string) *Board {
	return &Board{text: initial}
}

// Get returns the current message.
func (b *Board) Get() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Set replaces the current message.
func (b *Board) Set(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}
