package bindex

import (
	"fmt"
	"slices"
)

// maxResident is the hard ceiling on decoded nodes held in memory. A single
// split step needs exactly the parent, the full child and the new sibling
// resident at once, so 3 is the tightest workable bound.
const maxResident = 3

// nodeCache is a write-back LRU over decoded nodes. Reads go through get,
// every mutation ends with a put, and dirty nodes reach the blockStore only
// on eviction or flushAll.
type nodeCache struct {
	capacity int
	s        *blockStore
	nodes    map[uint64]*node
	// LRU order, least recently used first
	order []uint64
	stat  *iStat
}

func newNodeCache(s *blockStore, stat *iStat) *nodeCache {
	return &nodeCache{
		capacity: maxResident,
		s:        s,
		nodes:    make(map[uint64]*node, maxResident),
		stat:     stat,
	}
}

func (c *nodeCache) get(id uint64) (*node, error) {
	if n, ok := c.nodes[id]; ok {
		c.stat.cacheHit.Add(1)
		c.touch(id)
		return n, nil
	}
	c.stat.cacheMis.Add(1)
	if len(c.order) >= c.capacity {
		if err := c.evictLRU(); err != nil {
			return nil, err
		}
	}
	buf, err := c.s.readBlock(id)
	if err != nil {
		return nil, err
	}
	n, err := decodeNode(buf)
	if err != nil {
		return nil, err
	}
	c.nodes[id] = n
	c.order = append(c.order, id)
	return n, nil
}

// put inserts or refreshes a node object as most recently used and marks it
// dirty. Re-inserting an object that was evicted mid-operation is legal: the
// object stays authoritative over the disk copy until written back.
func (c *nodeCache) put(n *node) error {
	n.dirty = true
	if _, ok := c.nodes[n.id]; ok {
		c.nodes[n.id] = n
		c.touch(n.id)
		return nil
	}
	if len(c.order) >= c.capacity {
		if err := c.evictLRU(); err != nil {
			return err
		}
	}
	c.nodes[n.id] = n
	c.order = append(c.order, n.id)
	return nil
}

func (c *nodeCache) touch(id uint64) {
	idx := slices.Index(c.order, id)
	c.order = append(slices.Delete(c.order, idx, idx+1), id)
}

func (c *nodeCache) evictLRU() error {
	if len(c.order) == 0 {
		return fmt.Errorf("evict on empty cache: %w", ErrInvariant)
	}
	id := c.order[0]
	c.order = c.order[1:]
	n := c.nodes[id]
	delete(c.nodes, id)
	c.stat.evictions.Add(1)
	if n.dirty {
		return c.writeBack(n)
	}
	return nil
}

func (c *nodeCache) writeBack(n *node) error {
	buf, err := encodeNode(n)
	if err != nil {
		return err
	}
	if err = c.s.writeBlock(n.id, buf); err != nil {
		return err
	}
	n.dirty = false
	c.stat.writeBacks.Add(1)
	return nil
}

// flushAll writes back every dirty resident node. Must run before the store
// closes or the most recent modifications are lost.
func (c *nodeCache) flushAll() error {
	for _, id := range c.order {
		n := c.nodes[id]
		if !n.dirty {
			continue
		}
		if err := c.writeBack(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *nodeCache) resident() int {
	return len(c.order)
}
