package engine

// Topic is a named broadcast channel for one event kind. Subscribers run
// synchronously, in registration order, on the goroutine that publishes.
// A Topic is owned by a single session loop and is not safe for concurrent use.
type Topic[T any] struct {
	name string
	subs []subscription[T]
	next int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewTopic creates an empty topic.
func NewTopic[T any](name string) *Topic[T] {
	return &Topic[T]{name: name}
}

// Name returns the topic name.
func (t *Topic[T]) Name() string { return t.name }

// Len returns the number of subscribers.
func (t *Topic[T]) Len() int { return len(t.subs) }

// Subscribe registers fn and returns a function that removes it.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.next++
	id := t.next
	t.subs = append(t.subs, subscription[T]{id: id, fn: fn})
	return func() {
		kept := make([]subscription[T], 0, len(t.subs))
		for _, s := range t.subs {
			if s.id != id {
				kept = append(kept, s)
			}
		}
		t.subs = kept
	}
}

// Publish delivers v to every subscriber.
func (t *Topic[T]) Publish(v T) {
	for _, s := range t.subs {
		s.fn(v)
	}
}
