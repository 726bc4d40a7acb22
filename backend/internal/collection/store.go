package collection

import (
	"context"
	"sync"
	"sync/atomic"

	"vincit.fi/game-shelf/api"
	"vincit.fi/game-shelf/api/apitype"
	"vincit.fi/game-shelf/common/logger"
)

type snapshot struct {
	ticket     uint64
	categories []*apitype.Category
}

// Store keeps the latest category list fetched from the service.
//
// Every Refresh takes a ticket from a monotonic counter. A finished fetch replaces the
// snapshot only if its ticket is newer than the ticket of the snapshot being shown, so a
// slow, older request can never overwrite the result of a newer one. Reads never block.
type Store struct {
	service api.CategoryService
	sender  api.Sender

	current atomic.Pointer[snapshot]

	mutex        sync.Mutex
	lastTicket   uint64
	failedTicket uint64
	inFlight     int
}

func NewStore(service api.CategoryService, sender api.Sender) *Store {
	store := &Store{
		service: service,
		sender:  sender,
	}
	store.current.Store(&snapshot{ticket: 0, categories: []*apitype.Category{}})
	return store
}

func (s *Store) Refresh(ctx context.Context) error {
	ticket := s.begin()
	logger.Debug.Printf("Refreshing categories (ticket %d)", ticket)

	categories, err := s.service.ListCategories(ctx)
	if err != nil {
		s.fail(ticket)
		fetchErr := &api.FetchError{Err: err}
		s.sender.SendError("Could not load categories", fetchErr)
		return fetchErr
	}

	if !s.apply(ticket, categories) {
		logger.Debug.Printf("Discarding categories of superseded refresh (ticket %d)", ticket)
	}
	return nil
}

func (s *Store) begin() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastTicket++
	s.inFlight++
	return s.lastTicket
}

func (s *Store) fail(ticket uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.inFlight--
	if ticket > s.failedTicket {
		s.failedTicket = ticket
	}
}

// apply swaps and publishes under the same lock so updates are published in ticket order.
func (s *Store) apply(ticket uint64, categories []*apitype.Category) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.inFlight--
	if ticket <= s.current.Load().ticket {
		return false
	}

	replacement := copyCategories(categories)
	s.current.Store(&snapshot{ticket: ticket, categories: replacement})

	logger.Debug.Printf("Categories refreshed (ticket %d, %d categories)", ticket, len(replacement))
	s.sender.SendCommandToTopic(api.CategoriesUpdated, &api.UpdateCategoriesCommand{
		Categories: copyCategories(replacement),
	})
	return true
}

// CurrentSnapshot returns a copy of the latest list. Empty until the first successful refresh.
func (s *Store) CurrentSnapshot() []*apitype.Category {
	return copyCategories(s.current.Load().categories)
}

func (s *Store) State() api.CollectionState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.inFlight > 0 {
		return api.Loading
	} else if s.current.Load().ticket > 0 {
		return api.Ready
	} else {
		return api.Uninitialized
	}
}

// IsStale tells if a refresh newer than the shown snapshot has failed.
func (s *Store) IsStale() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.failedTicket > s.current.Load().ticket
}

func copyCategories(categories []*apitype.Category) []*apitype.Category {
	result := make([]*apitype.Category, 0, len(categories))
	for _, category := range categories {
		if category != nil {
			result = append(result, category)
		}
	}
	return result
}
