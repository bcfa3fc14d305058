package store

import (
	"sync"
)

// hub fans a collection's change notifications out to its subscribers.
// Every write through the facade triggers a fresh read of the full
// result set per subscriber; a failed read still delivers an empty set
// so consumers never hang on stale state.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

type subscriber struct {
	orderKey string
	cb       func([]Record)
	onErr    func(error)
}

func newHub() *hub {
	return &hub{subs: make(map[int]*subscriber)}
}

type fetchFunc func(orderKey string) ([]Record, error)

func (h *hub) subscribe(orderKey string, cb func([]Record), onErr func(error), fetch fetchFunc) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	sub := &subscriber{orderKey: orderKey, cb: cb, onErr: onErr}
	h.subs[id] = sub
	h.mu.Unlock()

	// Initial snapshot, same path as a change notification.
	deliver(sub, fetch)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) broadcast(fetch fetchFunc) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		deliver(s, fetch)
	}
}

func deliver(s *subscriber, fetch fetchFunc) {
	recs, err := fetch(s.orderKey)
	if err != nil {
		if s.onErr != nil {
			s.onErr(err)
		}
		s.cb([]Record{})
		return
	}
	s.cb(recs)
}
