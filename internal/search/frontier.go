package search

import "container/heap"

// item is one frontier entry: a candidate path ending at node.
type item struct {
	node     string
	path     []string
	cost     float64
	priority float64
	seq      uint64
}

// priorityQueue implements heap.Interface. Equal priorities pop in
// insertion order.
type priorityQueue []*item

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) { *pq = append(*pq, x.(*item)) }

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return it
}

type frontier struct {
	queue priorityQueue
	next  uint64
}

func (f *frontier) push(it *item) {
	it.seq = f.next
	f.next++
	heap.Push(&f.queue, it)
}

func (f *frontier) pop() *item { return heap.Pop(&f.queue).(*item) }

func (f *frontier) empty() bool { return f.queue.Len() == 0 }

func extend(path []string, node string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = node
	return next
}
