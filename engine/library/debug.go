package library

import (
	"github.com/sasha-s/go-deadlock"
)

// ValidateSaneExecutionTime holds a deadlock-detecting mutex until the returned func is called,
// so anything that blocks for longer than deadlock.Opts.DeadlockTimeout gets reported.
func ValidateSaneExecutionTime() func() {
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	return func() {
		mu.Unlock()
	}
}
