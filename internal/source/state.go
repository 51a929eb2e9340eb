package source

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/matheuskafuri/newsticker/internal/news"
)

// ErrBusy rejects a service switch while a resolve cycle is in flight.
var ErrBusy = errors.New("a headline refresh is already in progress")

// EmptyPolicy decides what happens to the visible list when a cycle ends Empty.
type EmptyPolicy string

const (
	KeepLast  EmptyPolicy = "keep"
	ClearList EmptyPolicy = "clear"
)

// Ticket identifies one resolve cycle. Only the newest ticket may apply.
type Ticket struct {
	Service    news.Service
	Generation uint64
}

// Snapshot is a read-only copy of State for rendering.
type Snapshot struct {
	Service   news.Service
	Headlines []news.Headline
	Offline   bool
	Loading   bool
	LastKind  Kind
	UpdatedAt time.Time
}

// State holds the current service and headline list.
type State struct {
	mu         sync.Mutex
	service    news.Service
	headlines  []news.Headline
	offline    bool
	loading    bool
	lastKind   Kind
	updatedAt  time.Time
	generation uint64
	empty      EmptyPolicy
}

func NewState(initial news.Service, empty EmptyPolicy) *State {
	if empty == "" {
		empty = KeepLast
	}
	return &State{service: initial, empty: empty}
}

// Switch makes svc current and clears the old list. It fails with ErrBusy
// while another cycle is loading.
func (s *State) Switch(svc news.Service) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return Ticket{}, ErrBusy
	}
	s.service = svc
	s.headlines = nil
	return s.begin(), nil
}

// Refresh starts a new cycle for the current service, superseding any cycle
// still in flight. The current list stays visible until Apply.
func (s *State) Refresh() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin()
}

func (s *State) begin() Ticket {
	s.generation++
	s.loading = true
	return Ticket{Service: s.service, Generation: s.generation}
}

// Apply installs out if t is still the newest ticket and reports whether the
// visible list changed. Results from superseded cycles are dropped.
func (s *State) Apply(t Ticket, out Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation || t.Service != s.service {
		return false
	}
	s.loading = false
	s.offline = out.Offline
	s.lastKind = out.Kind
	s.updatedAt = out.ResolvedAt

	if len(out.Headlines) > 0 {
		s.headlines = slices.Clone(out.Headlines)
		return true
	}
	if s.empty == ClearList && s.headlines != nil {
		s.headlines = nil
		return true
	}
	return false
}

func (s *State) Service() news.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Service:   s.service,
		Headlines: slices.Clone(s.headlines),
		Offline:   s.offline,
		Loading:   s.loading,
		LastKind:  s.lastKind,
		UpdatedAt: s.updatedAt,
	}
}
