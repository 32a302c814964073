package queues

// Queue is a FIFO over a slice. Not safe for concurrent use.
type Queue[T any] []T

// From builds a queue holding a copy of items in order.
func From[T any](items []T) *Queue[T] {
	q := make(Queue[T], len(items))
	copy(q, items)
	return &q
}

func (q *Queue[T]) Pop() T {
	x := (*q)[0]
	*q = (*q)[1:]
	return x
}

func (q *Queue[T]) IsEmpty() bool {
	return len(*q) == 0
}

func (q *Queue[T]) Len() int {
	return len(*q)
}
