package checkout

import (
	"sync"

	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
)

// Handle is the pending payment handle bridging the submission and
// processing views across the external redirect boundary.
type Handle struct {
	PaymentURL string
	OrderNo    string
}

// HandleStore keeps at most one pending payment per shopper session.
// It replaces the pair of raw session storage keys the checkout used to
// share between views with explicit put/peek/clear-once semantics: the
// handle is cleared exactly once on the first terminal status observation
// and can never be read afterwards.
type HandleStore struct {
	mu     sync.Mutex
	handle *Handle
}

// NewHandleStore creates an empty store.
func NewHandleStore() *HandleStore {
	return &HandleStore{}
}

// Put stores the handle for the upcoming processing view, replacing any
// previous one.
func (s *HandleStore) Put(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = &h
}

// Peek returns the current handle without consuming it.
func (s *HandleStore) Peek() (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return Handle{}, false
	}
	return *s.handle, true
}

// Clear consumes the handle. It fails with ErrHandleConsumed when the
// handle was already cleared, which keeps double consumption visible.
func (s *HandleStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return domainErrors.ErrHandleConsumed
	}
	s.handle = nil
	return nil
}
