//go:build !darwin

package eventcatcher

// WatchSleep is only wired up on darwin.
func WatchSleep(fn func()) {}
