package actors

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

var terminateChan = make(chan struct{})
var terminateOnce = &sync.Once{}
var waitGroup = &deadlock.WaitGroup{}

func SetTerminateChan(term chan struct{}) {
	terminateChan = term
	terminateOnce = &sync.Once{}
}

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// GetWaitGroup is added to by anything that needs to finish work before the process exits.
func GetWaitGroup() *deadlock.WaitGroup {
	return waitGroup
}

// Shutdown closes the terminate channel (once) and waits for everything on the wait group.
func Shutdown() {
	terminateOnce.Do(func() {
		close(terminateChan)
	})
	waitGroup.Wait()
}
