package bindex

import (
	"encoding/binary"
	"fmt"
)

// encodeNode serializes a node into one 512-byte block. All integers are
// fixed-width big-endian; unused key/value/child slots stay zero.
func encodeNode(n *node) ([]byte, error) {
	if len(n.keys) != len(n.vals) {
		return nil, fmt.Errorf("encode node %d: keys/values length mismatch (%d/%d)", n.id, len(n.keys), len(n.vals))
	}
	if len(n.keys) > maxKeys {
		return nil, fmt.Errorf("encode node %d: too many keys (%d)", n.id, len(n.keys))
	}
	if len(n.children) != len(n.keys)+1 {
		return nil, fmt.Errorf("encode node %d: children count %d, want %d", n.id, len(n.children), len(n.keys)+1)
	}
	buf := make([]byte, blockSize)
	binary.BigEndian.PutUint64(buf[nodeOffID:], n.id)
	binary.BigEndian.PutUint64(buf[nodeOffParent:], n.parent)
	binary.BigEndian.PutUint64(buf[nodeOffCount:], uint64(len(n.keys)))
	for i, k := range n.keys {
		binary.BigEndian.PutUint64(buf[nodeOffKeys+i*8:], k)
	}
	for i, v := range n.vals {
		binary.BigEndian.PutUint64(buf[nodeOffVals+i*8:], v)
	}
	for i, c := range n.children {
		binary.BigEndian.PutUint64(buf[nodeOffChildren+i*8:], c)
	}
	return buf, nil
}

// decodeNode is the inverse mapping. keys/vals are truncated to the stored
// count and children to count+1; trailing slots on disk are ignored.
func decodeNode(buf []byte) (*node, error) {
	if len(buf) != blockSize {
		return nil, fmt.Errorf("decode node: bad block size (%d)", len(buf))
	}
	count := binary.BigEndian.Uint64(buf[nodeOffCount:])
	if count > maxKeys {
		return nil, fmt.Errorf("decode node: key count %d out of range: %w", count, ErrInvariant)
	}
	n := &node{
		id:       binary.BigEndian.Uint64(buf[nodeOffID:]),
		parent:   binary.BigEndian.Uint64(buf[nodeOffParent:]),
		keys:     make([]uint64, count),
		vals:     make([]uint64, count),
		children: make([]uint64, count+1),
	}
	for i := range n.keys {
		n.keys[i] = binary.BigEndian.Uint64(buf[nodeOffKeys+i*8:])
	}
	for i := range n.vals {
		n.vals[i] = binary.BigEndian.Uint64(buf[nodeOffVals+i*8:])
	}
	for i := range n.children {
		n.children[i] = binary.BigEndian.Uint64(buf[nodeOffChildren+i*8:])
	}
	return n, nil
}
