// Package queue implements the bounded priority queue used for top-k
// selection during search.
package queue

// Item represents an item in the priority queue.
type Item struct {
	ID       int64   // ID is the identifier carried by the item.
	Distance float32 // Distance is the priority of the item in the queue.
}

// TopK keeps the k best items seen so far. "Best" is defined by the worse
// func: worse(a, b) reports whether a ranks strictly worse than b, so the
// root of the heap is always the worst retained item and is evicted first.
//
// A worse func of "a.Distance > b.Distance" selects the k smallest
// distances (L2); "a.Distance < b.Distance" selects the k largest
// (inner product).
type TopK struct {
	k     int
	worse func(a, b Item) bool
	items []Item
}

// NewTopK creates a bounded queue retaining the k best items.
func NewTopK(k int, worse func(a, b Item) bool) *TopK {
	return &TopK{
		k:     k,
		worse: worse,
		items: make([]Item, 0, k),
	}
}

// Len returns the number of retained items.
func (q *TopK) Len() int { return len(q.items) }

// Push offers an item. If the queue is full and the item ranks worse than
// the current worst, it is dropped.
func (q *TopK) Push(item Item) {
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return
	}
	if q.k == 0 || !q.worse(q.items[0], item) {
		return
	}
	q.items[0] = item
	q.siftDown(0)
}

// PopWorst removes and returns the worst retained item.
func (q *TopK) PopWorst() (Item, bool) {
	n := len(q.items)
	if n == 0 {
		return Item{}, false
	}
	root := q.items[0]
	last := q.items[n-1]
	q.items[n-1] = Item{}
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root, true
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.worse(q.items[i], q.items[p]) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		worst := l
		if r := l + 1; r < n && q.worse(q.items[r], q.items[l]) {
			worst = r
		}
		if !q.worse(q.items[worst], q.items[i]) {
			return
		}
		q.items[i], q.items[worst] = q.items[worst], q.items[i]
		i = worst
	}
}
