package truediff

import "container/heap"

// nodeQueue orders new-tree nodes tallest first, then in pre-order.
type nodeQueue []*diffNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].Height != q[j].Height {
		return q[i].Height > q[j].Height
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*diffNode)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

func (q *nodeQueue) push(n *diffNode) { heap.Push(q, n) }

func (q *nodeQueue) pop() *diffNode { return heap.Pop(q).(*diffNode) }

func (q nodeQueue) peekHeight() int { return q[0].Height }
