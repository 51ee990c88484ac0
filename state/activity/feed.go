package activity

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

type Kind string

const (
	Lock   Kind = "lock"
	Join   Kind = "join"
	Create Kind = "create"
)

const (
	FeedSize           = 6
	TickInterval       = 2 * time.Second
	InitialTxRate      = 142
	InitialBlockHeight = 84291004
)

// lock is three times as likely as anything else
var weightedKinds = []Kind{Lock, Lock, Lock, Join, Create}

const walletAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

type Item struct {
	ID     string
	Wallet string // shortened, rXXXX...XXXX
	Amount float64
	Kind   Kind
	At     time.Time
}

// Feed is the synthetic network pulse shown next to the dashboard.
type Feed struct {
	mutex       *deadlock.Mutex
	clock       clock.Clock
	rand        *rand.Rand
	items       []Item
	txRate      int64
	blockHeight int64
}

// NewFeed starts a feed already holding FeedSize items. seed 0 seeds from the wall clock.
func NewFeed(seed int64, c clock.Clock) *Feed {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := &Feed{
		mutex:       &deadlock.Mutex{},
		clock:       c,
		rand:        rand.New(rand.NewSource(seed)),
		txRate:      InitialTxRate,
		blockHeight: InitialBlockHeight,
	}
	for i := 0; i < FeedSize; i++ {
		f.items = append(f.items, f.generate())
	}
	return f
}

func (f *Feed) generate() Item {
	item := Item{
		ID:     uuid.NewString(),
		Wallet: "r" + f.randomString(4) + "..." + f.randomString(4),
		Kind:   weightedKinds[f.rand.Intn(len(weightedKinds))],
		At:     f.clock.Now(),
	}
	switch item.Kind {
	case Lock:
		item.Amount = float64(f.rand.Intn(4500) + 100)
	case Create:
		item.Amount = 25
	}
	return item
}

func (f *Feed) randomString(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(walletAlphabet[f.rand.Intn(len(walletAlphabet))])
	}
	return b.String()
}

// Tick pushes a new item to the front, drops the oldest and moves the network stats along.
func (f *Feed) Tick() Item {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	item := f.generate()
	f.items = append([]Item{item}, f.items...)
	if len(f.items) > FeedSize {
		f.items = f.items[:FeedSize]
	}
	f.txRate = int64(f.rand.Intn(15) + 130)
	f.blockHeight++
	return item
}

// Items is newest first.
func (f *Feed) Items() []Item {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]Item(nil), f.items...)
}

func (f *Feed) Stats() (txRate int64, blockHeight int64) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.txRate, f.blockHeight
}

// Run ticks every interval until ctx is done, handing each new item to fn.
func (f *Feed) Run(ctx context.Context, interval time.Duration, fn func(Item)) {
	ticker := f.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			item := f.Tick()
			if fn != nil {
				fn(item)
			}
		}
	}
}
