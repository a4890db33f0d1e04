package pathfinder

type queueItem struct {
	node int64
	dist float64
}

// distanceQueue is a min-heap on tentative distance. Ties are broken on node id
// so that repeated runs explore nodes in the same order.
type distanceQueue []queueItem

func (q distanceQueue) Len() int { return len(q) }
func (q distanceQueue) Less(i, j int) bool {
	if q[i].dist == q[j].dist {
		return q[i].node < q[j].node
	}
	return q[i].dist < q[j].dist
}
func (q distanceQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distanceQueue) Push(x interface{}) {
	*q = append(*q, x.(queueItem))
}

func (q *distanceQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
