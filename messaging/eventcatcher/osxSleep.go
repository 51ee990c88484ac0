//go:build darwin

package eventcatcher

import (
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// WatchSleep calls fn every time the host goes to sleep.
func WatchSleep(fn func()) {
	sleepNotifier := notifier.GetInstance().Start()
	go func() {
		for activity := range sleepNotifier {
			if activity.Type == notifier.Sleep {
				fn()
			}
		}
	}()
}
