package cache

// lruNode is a node in a doubly-linked LRU list. It carries the key for
// O(1) deletion from the parent map and the cost charged for the entry.
type lruNode[K comparable] struct {
	key  K
	cost int
	prev *lruNode[K]
	next *lruNode[K]
}

// lruList orders entries from most recently used (head) to least recently
// used (tail) and tracks their summed cost.
// The list is not thread-safe; callers must handle synchronization.
type lruList[K comparable] struct {
	head *lruNode[K]
	tail *lruNode[K]
	len  int
	cost int
}

// Len returns the number of nodes in the list.
func (l *lruList[K]) Len() int {
	return l.len
}

// Cost returns the summed cost of all nodes.
func (l *lruList[K]) Cost() int {
	return l.cost
}

// PushFront adds a new node at the front and returns it.
func (l *lruList[K]) PushFront(key K, cost int) *lruNode[K] {
	node := &lruNode[K]{key: key, cost: cost}
	l.link(node)
	return node
}

// MoveToFront marks node as most recently used.
func (l *lruList[K]) MoveToFront(node *lruNode[K]) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	l.link(node)
}

// Remove removes a node from the list.
func (l *lruList[K]) Remove(node *lruNode[K]) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// RemoveOldest removes the least recently used node and returns its key.
// Returns zero value and false if list is empty.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

// Clear removes all nodes from the list.
func (l *lruList[K]) Clear() {
	*l = lruList[K]{}
}

func (l *lruList[K]) link(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
	l.cost += node.cost
}

func (l *lruList[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
	l.cost -= node.cost
}
