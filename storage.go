package bindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"github.com/Rafi-ctrl/CS4348-Project3/internal/sys"
	"os"
)

// blockStore owns the index file: raw 512-byte block I/O plus the header
// record in block 0. It hands out block ids and never reuses one.
type blockStore struct {
	file   *os.File
	path   string
	header fileHeader
}

func newBlockStore(path string) *blockStore {
	return &blockStore{
		path: path,
	}
}

func (s *blockStore) create() (err error) {
	s.file, err = os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return ErrAlreadyExists
		}
		return
	}
	s.header = fileHeader{
		rootID: 0,
		nextID: 1,
	}
	return s.writeHeader()
}

func (s *blockStore) open() (err error) {
	s.file, err = os.OpenFile(s.path, os.O_RDWR, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return
	}
	return s.readHeader()
}

func (s *blockStore) readHeader() error {
	buf, err := s.readBlock(0)
	if err != nil {
		return err
	}
	if !bytes.Equal(buf[headerOffMagic:headerOffMagic+8], magicTag[:]) {
		return ErrMalformedHeader
	}
	s.header.rootID = binary.BigEndian.Uint64(buf[headerOffRoot:])
	s.header.nextID = binary.BigEndian.Uint64(buf[headerOffNext:])
	return nil
}

// writeHeader persists the header record immediately, no batching: it guards
// the whole file's integrity.
func (s *blockStore) writeHeader() error {
	buf := make([]byte, blockSize)
	copy(buf[headerOffMagic:], magicTag[:])
	binary.BigEndian.PutUint64(buf[headerOffRoot:], s.header.rootID)
	binary.BigEndian.PutUint64(buf[headerOffNext:], s.header.nextID)
	return s.writeBlock(0, buf)
}

func (s *blockStore) readBlock(id uint64) ([]byte, error) {
	buf := make([]byte, blockSize)
	readCount, err := s.file.ReadAt(buf, int64(id)*blockSize)
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", id, err)
	}
	if readCount != blockSize {
		return nil, fmt.Errorf("read block %d: short read (%d)", id, readCount)
	}
	return buf, nil
}

func (s *blockStore) writeBlock(id uint64, buf []byte) error {
	if len(buf) != blockSize {
		return fmt.Errorf("write block %d: bad block size (%d)", id, len(buf))
	}
	writeCount, err := s.file.WriteAt(buf, int64(id)*blockSize)
	if err != nil {
		return fmt.Errorf("write block %d: %w", id, err)
	}
	if writeCount != blockSize {
		return fmt.Errorf("write block %d: short write (%d)", id, writeCount)
	}
	return nil
}

// allocBlock returns the next free id and advances the cursor. No two calls
// ever return the same id.
func (s *blockStore) allocBlock() (uint64, error) {
	id := s.header.nextID
	s.header.nextID++
	if err := s.writeHeader(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *blockStore) rootID() uint64 {
	return s.header.rootID
}

func (s *blockStore) setRootID(id uint64) error {
	s.header.rootID = id
	return s.writeHeader()
}

func (s *blockStore) sync() error {
	return sys.Fsync(s.file)
}

func (s *blockStore) close() (err error) {
	err = s.file.Close()
	if err != nil {
		return
	}
	s.file = nil
	return
}
