package pointer

import "sync"

// Feed tracks the latest pointer position and fans moves out to subscribers
type Feed struct {
	mu     sync.Mutex
	last   Position
	nextID int
	subs   map[int]func(Position)
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(Position))}
}

// Subscription is the handle returned by Subscribe
type Subscription struct {
	feed *Feed
	id   int
	once sync.Once
}

// Subscribe registers fn for every following Publish. The subscription is
// active as soon as Subscribe returns.
func (f *Feed) Subscribe(fn func(Position)) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.subs[f.nextID] = fn
	return &Subscription{feed: f, id: f.nextID}
}

// Close removes the subscription; later calls do nothing
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		s.feed.mu.Unlock()
	})
}

// Publish records pos as the latest position and notifies subscribers
func (f *Feed) Publish(pos Position) {
	f.mu.Lock()
	f.last = pos
	fns := make([]func(Position), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(pos)
	}
}

// Last returns the most recently published position
func (f *Feed) Last() Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Subscribers returns the number of open subscriptions
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
