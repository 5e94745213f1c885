package ranking

import "hash/fnv"

// Treap-based partial selection.
//
// Ordering: urgency key ASC, then player name ASC (deterministic). An
// in-order traversal therefore walks candidates from most to least urgent,
// and collecting the first n nodes is a partial sort without ordering the
// rest of the squad.

// node is one treap entry. size augments each subtree for order statistics.
type node struct {
	name  string
	key   float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aKey, aName) ranks before (bKey, bName), i.e. is more
// urgent.
func less(aKey float64, aName string, bKey float64, bName string) bool {
	if aKey != bKey {
		return aKey < bKey // lower key is more urgent
	}
	return aName < bName // tie-breaker by name asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// namePriority derives a deterministic heap priority from the player name so
// repeated selections over the same squad build the same tree shape.
func namePriority(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

func insert(n *node, name string, key float64) *node {
	if n == nil {
		return &node{name: name, key: key, prio: namePriority(name), size: 1}
	}
	if less(key, name, n.key, n.name) {
		n.left = insert(n.left, name, key)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, name, key)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// collectLowest appends up to limit names in urgency order (lowest keys
// first).
func collectLowest(n *node, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectLowest(n.left, limit, out)

	if len(*out) < limit {
		*out = append(*out, n.name)
	}

	if len(*out) < limit {
		collectLowest(n.right, limit, out)
	}
}
