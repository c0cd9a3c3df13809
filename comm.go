package bindex

const (
	blockSize = 512

	// minimal degree t=10
	minDegree   = 10
	maxKeys     = 2*minDegree - 1
	maxChildren = 2 * minDegree

	headerOffMagic = 0
	headerOffRoot  = 8
	headerOffNext  = 16

	nodeOffID       = 0
	nodeOffParent   = 8
	nodeOffCount    = 16
	nodeOffKeys     = 24
	nodeOffVals     = nodeOffKeys + maxKeys*8
	nodeOffChildren = nodeOffVals + maxKeys*8
)

var magicTag = [8]byte{'4', '3', '4', '8', 'P', 'R', 'J', '3'}

// fileHeader is the singleton record in block 0. Block id 0 is reserved for
// it, so 0 doubles as the "no node" sentinel everywhere else.
type fileHeader struct {
	rootID uint64
	nextID uint64
}

// node is the uniform in-memory form of one 512-byte block. children always
// has len(keys)+1 slots; a leaf carries all-zero slots instead of a type tag.
type node struct {
	id       uint64
	parent   uint64
	keys     []uint64
	vals     []uint64
	children []uint64
	dirty    bool
}

func (n *node) count() int {
	return len(n.keys)
}

func (n *node) full() bool {
	return len(n.keys) == maxKeys
}

func (n *node) isLeaf() bool {
	for _, c := range n.children {
		if c != 0 {
			return false
		}
	}
	return true
}
