package searcher

import (
	"github.com/hupe1980/vecfilter/model"
)

// PriorityQueueItem is a value-based heap entry.
type PriorityQueueItem struct {
	Node     model.NodeID  // internal graph node
	ID       model.PointID // caller-visible label
	Distance float32
}

// Candidate converts the item to its public form.
func (it PriorityQueueItem) Candidate() model.Candidate {
	return model.Candidate{ID: it.ID, Distance: it.Distance}
}

// Less reports whether a orders before b: smaller distance, then smaller ID.
func Less(a, b PriorityQueueItem) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.ID < b.ID
}

// PriorityQueue is a binary heap of PriorityQueueItems.
// It does not implement container/heap to avoid interface overhead.
type PriorityQueue struct {
	isMaxHeap bool
	items     []PriorityQueueItem
}

// NewPriorityQueue creates a min heap, or a max heap when isMaxHeap is set.
func NewPriorityQueue(isMaxHeap bool) *PriorityQueue {
	return NewPriorityQueueWithCapacity(isMaxHeap, 16)
}

// NewPriorityQueueWithCapacity is NewPriorityQueue with a preallocated backing array.
func NewPriorityQueueWithCapacity(isMaxHeap bool, capacity int) *PriorityQueue {
	return &PriorityQueue{
		isMaxHeap: isMaxHeap,
		items:     make([]PriorityQueueItem, 0, capacity),
	}
}

// Reset clears the queue, keeping its capacity.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

// Len returns the number of items.
func (pq *PriorityQueue) Len() int {
	return len(pq.items)
}

// TopItem returns the root without removing it.
func (pq *PriorityQueue) TopItem() (PriorityQueueItem, bool) {
	if len(pq.items) == 0 {
		return PriorityQueueItem{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item.
func (pq *PriorityQueue) PushItem(item PriorityQueueItem) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushItemBounded inserts an item into a max heap holding at most capacity
// items. When full, the item replaces the root only if it orders before it.
// It reports whether the item was kept.
func (pq *PriorityQueue) PushItemBounded(item PriorityQueueItem, capacity int) bool {
	if capacity <= 0 {
		return false
	}
	if len(pq.items) < capacity {
		pq.PushItem(item)
		return true
	}

	top := pq.items[0]
	better := Less(item, top)
	if !pq.isMaxHeap {
		better = Less(top, item)
	}
	if !better {
		return false
	}
	pq.items[0] = item
	pq.siftDown(0)
	return true
}

// PopItem removes and returns the root.
func (pq *PriorityQueue) PopItem() (PriorityQueueItem, bool) {
	n := len(pq.items)
	if n == 0 {
		return PriorityQueueItem{}, false
	}

	item := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items = pq.items[:n-1]

	if len(pq.items) > 0 {
		pq.siftDown(0)
	}
	return item, true
}

// Items returns the backing slice in heap order. It is only valid until the
// next mutation.
func (pq *PriorityQueue) Items() []PriorityQueueItem {
	return pq.items
}

// Drain empties the queue into dst in ascending (distance, ID) order.
func (pq *PriorityQueue) Drain(dst []PriorityQueueItem) []PriorityQueueItem {
	n := len(pq.items)
	start := len(dst)
	dst = append(dst, make([]PriorityQueueItem, n)...)
	for i := 0; i < n; i++ {
		item, _ := pq.PopItem()
		if pq.isMaxHeap {
			dst[start+n-1-i] = item
		} else {
			dst[start+i] = item
		}
	}
	return dst
}

// Sorted is Drain for the public candidate form.
func (pq *PriorityQueue) Sorted(dst []model.Candidate) []model.Candidate {
	for _, item := range pq.Drain(nil) {
		dst = append(dst, item.Candidate())
	}
	return dst
}

func (pq *PriorityQueue) less(i, j int) bool {
	if pq.isMaxHeap {
		return Less(pq.items[j], pq.items[i])
	}
	return Less(pq.items[i], pq.items[j])
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !pq.less(i, parent) {
			break
		}
		pq.items[i], pq.items[parent] = pq.items[parent], pq.items[i]
		i = parent
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && pq.less(right, left) {
			child = right
		}
		if !pq.less(child, i) {
			break
		}
		pq.items[i], pq.items[child] = pq.items[child], pq.items[i]
		i = child
	}
}
