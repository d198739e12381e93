package service

import (
	"sync"
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastListingUnix atomic.Int64 // unix seconds
	lastListingOK   atomic.Bool
	positions       atomic.Int64

	mu      sync.RWMutex
	lastRun RunSummary
}

// RunSummary: последний прогон close-all.
type RunSummary struct {
	At       time.Time `json:"at"`
	Listing  string    `json:"listing"`
	Attempts int       `json:"attempts"`
	Failed   int       `json:"failed"`
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) Ready() bool { return s.ready.Load() }

// ObserveListing: первый успешный листинг = ключи рабочие, панель готова.
func (s *State) ObserveListing(ok bool, count int) {
	s.lastListingUnix.Store(time.Now().Unix())
	s.lastListingOK.Store(ok)
	if ok {
		s.positions.Store(int64(count))
		s.ready.Store(true)
	}
}

func (s *State) ObserveCloseAll(listing string, attempts, failed int) {
	s.mu.Lock()
	s.lastRun = RunSummary{At: time.Now(), Listing: listing, Attempts: attempts, Failed: failed}
	s.mu.Unlock()
}

func (s *State) LastListing() (time.Time, bool) {
	u := s.lastListingUnix.Load()
	if u == 0 {
		return time.Time{}, false
	}
	return time.Unix(u, 0), s.lastListingOK.Load()
}

func (s *State) Positions() int { return int(s.positions.Load()) }

func (s *State) LastRun() (RunSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, !s.lastRun.At.IsZero()
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
