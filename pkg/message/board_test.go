package message

import (
	"sync"
	"testing"
)

func TestBoard(t *testing.T) {
	b := NewBoard("")
	if got := b.Get(); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}

	b.Set("hello")
	if got := b.Get(); got != "hello" {
		t.Errorf("Get() = %q, want %q", got, "hello")
	}

	b.Set("")
	if got := b.Get(); got != "" {
		t.Errorf("Get() = %q, want empty after reset", got)
	}
}

func TestBoard_Initial(t *testing.T) {
	if got := NewBoard("welcome").Get(); got != "welcome" {
		t.Errorf("Get() = %q, want %q", got, "welcome")
	}
}

func TestBoard_Concurrent(t *testing.T) {
	b := NewBoard("")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Set("x")
		}()
		go func() {
			defer wg.Done()
			_ = b.Get()
		}()
	}
	wg.Wait()

	if got := b.Get(); got != "x" {
		t.Errorf("Get() = %q, want %q", got, "x")
	}
}
