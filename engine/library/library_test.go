package library

import (
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"github.com/stretchr/testify/assert"
)

func TestFormatXRP(t *testing.T) {
	assert.Equal(t, "150,00", FormatXRP(150))
	assert.Equal(t, "1.234,50", FormatXRP(1234.5))
	assert.Equal(t, "0,00", FormatXRP(0))
}

func TestFormatPercentAndRound(t *testing.T) {
	assert.Equal(t, "58.2%", FormatPercent(58.2))
	assert.Equal(t, 8.54, Round(8.5418, 2))
	assert.Equal(t, -4.9, Round(-4.94, 1))
}

func TestTags(t *testing.T) {
	e := nostr.Event{Tags: nostr.Tags{nostr.Tag{"t", "approved"}, nostr.Tag{"p", "abc"}, nostr.Tag{"p", "def"}}}
	v, ok := GetFirstTag(e, "p")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	_, ok = GetFirstTag(e, "e")
	assert.False(t, ok)

	assert.True(t, TaggedWith(e, "p", "def"))
	assert.False(t, TaggedWith(e, "p", "xyz"))
}

func TestSha256Sum(t *testing.T) {
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	assert.Equal(t, empty, Sha256Sum(""))
	assert.Equal(t, empty, Sha256Sum([]byte{}))
	assert.Equal(t, Sha256Sum("42"), Sha256Sum(42))
}

func TestContendedMutexAcrossGoroutines(t *testing.T) {
	mu := &deadlock.Mutex{}
	mu.Lock()
	done := make(chan struct{})
	go func() {
		mu.Lock()
		mu.Unlock()
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	mu.Unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second goroutine never got the lock")
	}
}

func TestValidateSaneExecutionTime(t *testing.T) {
	sane := ValidateSaneExecutionTime()
	time.Sleep(10 * time.Millisecond)
	sane()
}
