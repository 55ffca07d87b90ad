package playback

import "slices"

// bay is a FIFO-served resource with a fixed number of slots (0 = unlimited)
type bay struct {
	slots   int
	holders []int
	queue   []int
}

func newBay(slots int) *bay {
	return &bay{slots: slots}
}

func (b *bay) free() bool {
	return b.slots <= 0 || len(b.holders) < b.slots
}

// request grants a slot right away when one is free and nobody is queued;
// otherwise the vehicle joins the back of the queue
func (b *bay) request(vehicle int) bool {
	if b.free() && len(b.queue) == 0 {
		b.holders = append(b.holders, vehicle)
		return true
	}
	if !slices.Contains(b.queue, vehicle) {
		b.queue = append(b.queue, vehicle)
	}
	return false
}

// promote hands a free slot to the vehicle at the head of the queue
func (b *bay) promote(vehicle int) bool {
	if len(b.queue) == 0 || b.queue[0] != vehicle || !b.free() {
		return false
	}
	b.queue = b.queue[1:]
	b.holders = append(b.holders, vehicle)
	return true
}

func (b *bay) release(vehicle int) {
	if i := slices.Index(b.holders, vehicle); i >= 0 {
		b.holders = slices.Delete(b.holders, i, i+1)
	}
}

func (b *bay) waiting() int { return len(b.queue) }

// occupant returns the first holder or -1
func (b *bay) occupant() int {
	if len(b.holders) == 0 {
		return -1
	}
	return b.holders[0]
}
