// Implements the ItemQueue, which orders the items waiting at a station.
// Queues are rebuilt from the item set each tick during resource assignment.

package sim

import (
	"fmt"
	"sort"
	"strings"
)

// ItemQueue represents a FIFO queue of items waiting for a processing slot
// at a single station. Promotion order is by queue-entry tick, ties broken
// by insertion order, so assignment stays deterministic for a fixed seed.
type ItemQueue struct {
	queue []*Item
}

// Enqueue adds an item to the back of the queue.
func (iq *ItemQueue) Enqueue(it *Item) {
	iq.queue = append(iq.queue, it)
}

// Len returns the number of items in the queue.
func (iq *ItemQueue) Len() int {
	return len(iq.queue)
}

// Peek returns the item at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (iq *ItemQueue) Peek() *Item {
	if len(iq.queue) == 0 {
		return nil
	}
	return iq.queue[0]
}

// Dequeue removes and returns the item at the front of the queue.
// Returns nil if the queue is empty.
func (iq *ItemQueue) Dequeue() *Item {
	if len(iq.queue) == 0 {
		return nil
	}
	it := iq.queue[0]
	iq.queue = iq.queue[1:]
	return it
}

// SortFIFO stable-sorts the queue by queue-entry tick. Items that entered
// on the same tick keep their insertion order.
func (iq *ItemQueue) SortFIFO() {
	sort.SliceStable(iq.queue, func(i, j int) bool {
		return iq.queue[i].QueuedSince < iq.queue[j].QueuedSince
	})
}

// Items returns the queue contents for iteration. The returned slice is the
// queue's internal storage -- callers MUST NOT append to or reslice it.
func (iq *ItemQueue) Items() []*Item {
	return iq.queue
}

func (iq *ItemQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range iq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(iq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
