package radio

// RingChannel is a bounded channel-like buffer with overwrite-oldest
// semantics. Producers never block indefinitely: if the buffer is full, the
// oldest element is discarded so the hardware callback thread can always make
// progress even when the consumer stalls.
type RingChannel[T any] struct {
	ch chan T
}

// NewRingChannel creates a RingChannel with the given capacity.
func NewRingChannel[T any](capacity int) *RingChannel[T] {
	if capacity <= 0 {
		panic("ringchan: capacity must be > 0")
	}
	return &RingChannel[T]{ch: make(chan T, capacity)}
}

// C returns the underlying receive-only channel. Consumers can range over
// this until it is closed.
func (rc *RingChannel[T]) C() <-chan T {
	return rc.ch
}

// ForceSend inserts an item, discarding the oldest if the buffer is full.
// It never blocks. Returns true if an element was dropped to make room.
func (rc *RingChannel[T]) ForceSend(v T) bool {
	for {
		select {
		case rc.ch <- v:
			return false
		default:
		}
		select {
		case <-rc.ch: // drop oldest
			select {
			case rc.ch <- v:
				return true
			default:
				// A concurrent producer won the slot; retry.
			}
		default:
		}
	}
}

// TrySend attempts to insert without blocking.
// Returns true if successful, false if the buffer is full.
func (rc *RingChannel[T]) TrySend(v T) bool {
	select {
	case rc.ch <- v:
		return true
	default:
		return false
	}
}

// Close closes the channel. Only the producer side may call it.
func (rc *RingChannel[T]) Close() {
	close(rc.ch)
}

// Len returns the number of buffered elements.
func (rc *RingChannel[T]) Len() int {
	return len(rc.ch)
}
