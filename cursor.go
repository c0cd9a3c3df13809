package bindex

type cursorFrame struct {
	id  uint64
	idx int
}

// Cursor walks the tree in ascending key order, lazily. Frames hold block
// ids rather than nodes, so a traversal never pins more nodes than the cache
// ceiling allows; descent and backtrack re-fetch on demand.
type Cursor struct {
	bt    *BTree
	stack []cursorFrame
	key   uint64
	val   uint64
}

// Cursor positions a new cursor before the smallest key. An empty tree
// yields a cursor whose first Next reports false.
func (bt *BTree) Cursor() (*Cursor, error) {
	c := &Cursor{bt: bt}
	root := bt.s.rootID()
	if root == 0 {
		return c, nil
	}
	if err := c.descendMin(root); err != nil {
		return nil, err
	}
	return c, nil
}

// descendMin pushes the path from id down to its leftmost leaf.
func (c *Cursor) descendMin(id uint64) error {
	for id != 0 {
		c.stack = append(c.stack, cursorFrame{id: id})
		n, err := c.bt.cache.get(id)
		if err != nil {
			return err
		}
		if n.isLeaf() {
			break
		}
		id = n.children[0]
	}
	return nil
}

// Next advances to the following pair, reporting false once the sequence is
// exhausted. Key and Value are valid after a true result.
func (c *Cursor) Next() (bool, error) {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		n, err := c.bt.cache.get(top.id)
		if err != nil {
			return false, err
		}
		if top.idx < n.count() {
			c.key = n.keys[top.idx]
			c.val = n.vals[top.idx]
			top.idx++
			if !n.isLeaf() {
				// the subtree between this key and the next
				if err = c.descendMin(n.children[top.idx]); err != nil {
					return false, err
				}
			}
			return true, nil
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	return false, nil
}

func (c *Cursor) Key() uint64 {
	return c.key
}

func (c *Cursor) Value() uint64 {
	return c.val
}

// Ascend runs fn over every pair in ascending key order until fn returns
// false or the tree is exhausted.
func (bt *BTree) Ascend(fn func(key, val uint64) bool) error {
	cur, err := bt.Cursor()
	if err != nil {
		return err
	}
	for {
		ok, err := cur.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !fn(cur.Key(), cur.Value()) {
			return nil
		}
	}
}
