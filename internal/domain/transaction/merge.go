package transaction

import "container/heap"

// mergeItem tracks the head of one sorted input list inside the heap.
type mergeItem struct {
	tx   Transaction
	list int
	next int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	if Less(h[i].tx, h[j].tx) {
		return true
	}
	if Less(h[j].tx, h[i].tx) {
		return false
	}
	// Identical ordering keys across lists: fall back to list index so the
	// merge is deterministic regardless of goroutine completion order.
	return h[i].list < h[j].list
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) {
	*h = append(*h, x.(mergeItem))
}

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Merge combines k per-link transaction lists, each already in display
// order, into a single list in display order. Zero lists or all-empty lists
// yield an empty result, never nil dereferences.
func Merge(lists [][]Transaction) []Transaction {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]Transaction, 0, total)

	h := make(mergeHeap, 0, len(lists))
	for i, l := range lists {
		if len(l) > 0 {
			h = append(h, mergeItem{tx: l[0], list: i, next: 1})
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		item := heap.Pop(&h).(mergeItem)
		merged = append(merged, item.tx)

		if item.next < len(lists[item.list]) {
			heap.Push(&h, mergeItem{
				tx:   lists[item.list][item.next],
				list: item.list,
				next: item.next + 1,
			})
		}
	}

	return merged
}
