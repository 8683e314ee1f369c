// Package queue implements a FIFO worklist backed by a growing ring buffer.
package queue

const minSize = 3

// Queue is not safe for concurrent use.
// size is always 2^n - 1 and is used as an index mask.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	zero       T
}

func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{}
	q.tail = len(items)
	q.size = computeSize(q.tail)
	q.items = make([]T, q.size+1)
	copy(q.items, items)
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Push adds items to the tail.
func (q *Queue[T]) Push(items ...T) *Queue[T] {
	for _, item := range items {
		q.items[q.tail] = item
		q.tail = (q.tail + 1) & q.size
		if q.tail == q.head {
			q.grow()
		}
	}
	return q
}

// Pop removes and returns the head item.
func (q *Queue[T]) Pop() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return item, true
}

func computeSize(length int) (size int) {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	return length | length>>16
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size += q.tail
	q.items = items
}
