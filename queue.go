// queue.go - bounded ring-buffer event queue of 64-bit words, each carrying
// a tag bit in its MSB to distinguish writeback events from cache-update
// events.

package main

const eventQueueTagBit = uint64(1) << 63

// EventQueue is a fixed-capacity FIFO of 64-bit words. The tag bit is
// encoded into the MSB on enqueue and stripped on dequeue; the low 63 bits
// carry either an evicted (address,operand) pair or an updated
// (slot-index,operand) pair depending on the tag.
type EventQueue struct {
	data  []uint64
	front int
	rear  int
	count int
}

// NewEventQueue allocates a queue of the given capacity.
func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{data: make([]uint64, capacity)}
}

func (q *EventQueue) isEmpty() bool {
	return q.count == 0
}

func (q *EventQueue) isFull() bool {
	return q.count == len(q.data)
}

// enqueueWithBit encodes writeback into the MSB and pushes value. Returns
// false (and drops the event) if the queue is full.
func (q *EventQueue) enqueueWithBit(value uint64, isWriteback bool) bool {
	if q.isFull() {
		return false
	}
	encoded := value &^ eventQueueTagBit
	if !isWriteback {
		encoded |= eventQueueTagBit
	}
	q.data[q.rear] = encoded
	q.rear = (q.rear + 1) % len(q.data)
	q.count++
	return true
}

// dequeueWithBit pops the oldest event, decoding the writeback tag and the
// 63-bit payload. Returns ok=false on an empty queue.
func (q *EventQueue) dequeueWithBit() (value uint64, isWriteback bool, ok bool) {
	if q.isEmpty() {
		return 0, false, false
	}
	encoded := q.data[q.front]
	q.front = (q.front + 1) % len(q.data)
	q.count--
	isWriteback = encoded&eventQueueTagBit == 0
	value = encoded &^ eventQueueTagBit
	return value, isWriteback, true
}

// reset drops all queued events without freeing the backing array.
func (q *EventQueue) reset() {
	q.front, q.rear, q.count = 0, 0, 0
}
