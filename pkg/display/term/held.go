package term

import (
	"github.com/thelolagemann/gochip8/internal/keypad"
	"sort"
	"time"
)

// heldKeys turns typed characters into press and release pairs.
// A key is released once it has not been typed for hold.
type heldKeys struct {
	hold  time.Duration
	until map[keypad.Key]time.Time
}

func newHeldKeys(hold time.Duration) *heldKeys {
	return &heldKeys{hold: hold, until: make(map[keypad.Key]time.Time)}
}

// press extends the hold of k, reporting whether k was newly
// pressed.
func (h *heldKeys) press(k keypad.Key, now time.Time) bool {
	_, held := h.until[k]
	h.until[k] = now.Add(h.hold)
	return !held
}

// expire returns the keys whose hold ran out by now, in key
// order.
func (h *heldKeys) expire(now time.Time) []keypad.Key {
	var keys []keypad.Key
	for k, until := range h.until {
		if !now.Before(until) {
			keys = append(keys, k)
			delete(h.until, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
