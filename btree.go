package bindex

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

type Config struct {
	// Path is the index file location.
	Path   string
	Logger *slog.Logger
}

// BTree is a single-writer B-Tree index persisted as 512-byte blocks in one
// file. All node access goes through the bounded cache; the block store is
// touched directly only for the header.
type BTree struct {
	cfg   Config
	log   *slog.Logger
	s     *blockStore
	cache *nodeCache
	stat  iStat
}

func NewBTree(cfg Config) *BTree {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	bt := &BTree{
		cfg: cfg,
		log: cfg.Logger,
		s:   newBlockStore(cfg.Path),
	}
	bt.cache = newNodeCache(bt.s, &bt.stat)
	return bt
}

// Create initializes a fresh index file. Fails with ErrAlreadyExists if the
// target is present.
func (bt *BTree) Create() error {
	if err := bt.s.create(); err != nil {
		return err
	}
	bt.log.Debug("index created", "path", bt.cfg.Path)
	return nil
}

// Open loads an existing index file. Fails with ErrNotFound if missing and
// ErrMalformedHeader if the magic tag does not match.
func (bt *BTree) Open() error {
	if err := bt.s.open(); err != nil {
		return err
	}
	bt.log.Debug("index opened", "path", bt.cfg.Path, "root", bt.s.rootID())
	return nil
}

// Close flushes every dirty resident node and syncs the file. Skipping it
// silently loses the most recent modifications.
func (bt *BTree) Close() (err error) {
	err = bt.cache.flushAll()
	if err != nil {
		return
	}
	err = bt.s.sync()
	if err != nil {
		return
	}
	return bt.s.close()
}

func (bt *BTree) Stat() ExportStat {
	return bt.stat.export()
}

// Get returns the value paired with key, or ErrKeyNotFound.
func (bt *BTree) Get(key uint64) (uint64, error) {
	id := bt.s.rootID()
	for id != 0 {
		n, err := bt.cache.get(id)
		if err != nil {
			return 0, err
		}
		i, found := slices.BinarySearch(n.keys, key)
		if found {
			return n.vals[i], nil
		}
		if n.isLeaf() {
			break
		}
		id = n.children[i]
	}
	return 0, ErrKeyNotFound
}

// Put inserts a new pair. An existing key is rejected with ErrDuplicateKey
// and the tree is left untouched; the probe happens before any allocation or
// split so rejection cannot restructure the file.
func (bt *BTree) Put(key, val uint64) error {
	_, err := bt.Get(key)
	if err == nil {
		return ErrDuplicateKey
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	rootID := bt.s.rootID()
	if rootID == 0 {
		var root *node
		root, err = bt.allocNode(0)
		if err != nil {
			return err
		}
		root.keys = []uint64{key}
		root.vals = []uint64{val}
		root.children = []uint64{0, 0}
		if err = bt.cache.put(root); err != nil {
			return err
		}
		return bt.s.setRootID(root.id)
	}
	root, err := bt.cache.get(rootID)
	if err != nil {
		return err
	}
	if root.full() {
		var newRoot *node
		newRoot, err = bt.allocNode(0)
		if err != nil {
			return err
		}
		newRoot.children = []uint64{rootID}
		root.parent = newRoot.id
		if err = bt.cache.put(root); err != nil {
			return err
		}
		if err = bt.s.setRootID(newRoot.id); err != nil {
			return err
		}
		if err = bt.splitChild(newRoot, 0); err != nil {
			return err
		}
		return bt.insertNonfull(newRoot.id, key, val)
	}
	return bt.insertNonfull(rootID, key, val)
}

// allocNode claims a fresh block id and registers a new empty leaf with the
// cache, dirty from birth.
func (bt *BTree) allocNode(parent uint64) (*node, error) {
	id, err := bt.s.allocBlock()
	if err != nil {
		return nil, err
	}
	n := &node{
		id:       id,
		parent:   parent,
		children: []uint64{0},
	}
	if err = bt.cache.put(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (bt *BTree) insertNonfull(id uint64, key, val uint64) error {
	n, err := bt.cache.get(id)
	if err != nil {
		return err
	}
	i, found := slices.BinarySearch(n.keys, key)
	if found {
		// Put probes before descending, so this is unreachable
		return ErrDuplicateKey
	}
	if n.isLeaf() {
		n.keys = slices.Insert(n.keys, i, key)
		n.vals = slices.Insert(n.vals, i, val)
		n.children = append(n.children, 0)
		return bt.cache.put(n)
	}
	child, err := bt.cache.get(n.children[i])
	if err != nil {
		return err
	}
	if child.full() {
		if err = bt.splitChild(n, i); err != nil {
			return err
		}
		// the promoted median may sit below key
		if key > n.keys[i] {
			i++
		}
	}
	return bt.insertNonfull(n.children[i], key, val)
}

// splitChild splits the full child at parent.children[i]. The sibling takes
// the upper 9 pairs, the median pair moves up into parent, and the child is
// truncated to the lower 9. Parent, child and sibling are exactly the 3-node
// working set the cache capacity is sized for.
func (bt *BTree) splitChild(parent *node, i int) error {
	child, err := bt.cache.get(parent.children[i])
	if err != nil {
		return err
	}
	if !child.full() {
		return fmt.Errorf("split of non-full node %d: %w", child.id, ErrInvariant)
	}
	sib, err := bt.allocNode(parent.id)
	if err != nil {
		return err
	}
	medianKey := child.keys[minDegree-1]
	medianVal := child.vals[minDegree-1]
	sib.keys = append([]uint64(nil), child.keys[minDegree:]...)
	sib.vals = append([]uint64(nil), child.vals[minDegree:]...)
	if child.isLeaf() {
		sib.children = make([]uint64, len(sib.keys)+1)
	} else {
		sib.children = append([]uint64(nil), child.children[minDegree:]...)
		// reparent the moved children; fetching them may evict any of the
		// three split nodes, which the final puts below re-register
		for _, gid := range sib.children {
			g, err := bt.cache.get(gid)
			if err != nil {
				return err
			}
			g.parent = sib.id
			if err = bt.cache.put(g); err != nil {
				return err
			}
		}
	}
	child.keys = child.keys[:minDegree-1]
	child.vals = child.vals[:minDegree-1]
	child.children = child.children[:minDegree]
	parent.keys = slices.Insert(parent.keys, i, medianKey)
	parent.vals = slices.Insert(parent.vals, i, medianVal)
	parent.children = slices.Insert(parent.children, i+1, sib.id)
	if err = bt.cache.put(child); err != nil {
		return err
	}
	if err = bt.cache.put(sib); err != nil {
		return err
	}
	return bt.cache.put(parent)
}

// MinKey returns the smallest key in the tree.
func (bt *BTree) MinKey() (uint64, error) {
	id := bt.s.rootID()
	if id == 0 {
		return 0, ErrKeyNotFound
	}
	for {
		n, err := bt.cache.get(id)
		if err != nil {
			return 0, err
		}
		if n.count() == 0 {
			return 0, fmt.Errorf("empty node %d on min descent: %w", n.id, ErrInvariant)
		}
		if n.isLeaf() {
			return n.keys[0], nil
		}
		id = n.children[0]
	}
}

// MaxKey returns the largest key in the tree.
func (bt *BTree) MaxKey() (uint64, error) {
	id := bt.s.rootID()
	if id == 0 {
		return 0, ErrKeyNotFound
	}
	for {
		n, err := bt.cache.get(id)
		if err != nil {
			return 0, err
		}
		if n.count() == 0 {
			return 0, fmt.Errorf("empty node %d on max descent: %w", n.id, ErrInvariant)
		}
		if n.isLeaf() {
			return n.keys[n.count()-1], nil
		}
		id = n.children[n.count()]
	}
}
