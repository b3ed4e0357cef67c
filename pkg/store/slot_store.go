package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ssargent/prodfile/pkg/codec"
	"github.com/ssargent/prodfile/pkg/schema"
)

// SlotStore keeps records in fixed-width slots of a single file. Slot n lives
// at byte offset n*schema.RecordLen. The file has no header; the slot count is
// derived from its length.
type SlotStore struct {
	config SlotStoreConfig
	file   *os.File
	codec  *codec.RecordCodec
	mutex  sync.Mutex
	isOpen bool
}

// Open opens or creates the data file at path for reading and writing
func Open(path string) (*SlotStore, error) {
	return OpenWithConfig(SlotStoreConfig{FilePath: path})
}

// OpenWithConfig opens a slot store with the given configuration
func OpenWithConfig(config SlotStoreConfig) (*SlotStore, error) {
	if config.FilePath == "" {
		config.FilePath = DefaultDataFile
	}

	// Ensure directory exists
	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrOpen, config.FilePath, err)
		}
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, config.FilePath, err)
	}

	return &SlotStore{
		config: config,
		file:   file,
		codec:  codec.NewRecordCodec(),
		isOpen: true,
	}, nil
}

// Append validates and encodes the record and writes it into the next free
// slot. It returns the slot index. The record is stored in its normalized
// form, which is what ReadSlot returns.
func (s *SlotStore) Append(r schema.Record) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	r = r.Normalize()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return 0, ErrStoreClosed
	}

	count, err := s.slotCount()
	if err != nil {
		return 0, err
	}

	offset := count * schema.RecordLen
	if _, err := s.file.WriteAt(s.codec.Encode(r), offset); err != nil {
		return 0, fmt.Errorf("%w %d: %w", ErrWrite, count, err)
	}

	if s.config.SyncWrites {
		if err := s.file.Sync(); err != nil {
			return 0, fmt.Errorf("%w %d: %w", ErrWrite, count, err)
		}
	}

	return count, nil
}

// ReadSlot reads and decodes the record at index
func (s *SlotStore) ReadSlot(index int64) (schema.Record, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return schema.Record{}, ErrStoreClosed
	}

	count, err := s.slotCount()
	if err != nil {
		return schema.Record{}, err
	}
	if index < 0 || index >= count {
		return schema.Record{}, ErrOutOfRange
	}

	return s.readSlot(index)
}

// SlotCount returns the number of slots in the file
func (s *SlotStore) SlotCount() (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return 0, ErrStoreClosed
	}
	return s.slotCount()
}

// Size returns the current size of the data file in bytes
func (s *SlotStore) Size() (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return 0, ErrStoreClosed
	}
	stat, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return stat.Size(), nil
}

// Scan returns an iterator over slots 0..SlotCount()-1. Every call starts a
// fresh pass from slot 0.
func (s *SlotStore) Scan() (*SlotIterator, error) {
	count, err := s.SlotCount()
	if err != nil {
		return nil, err
	}
	return &SlotIterator{store: s, count: count, next: 0}, nil
}

// Sync flushes the data file to disk
func (s *SlotStore) Sync() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return ErrStoreClosed
	}
	return s.file.Sync()
}

// Close syncs and releases the data file. Closing a closed store is a no-op.
func (s *SlotStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil
	}
	s.isOpen = false

	if err := s.file.Sync(); err != nil {
		if closeErr := s.file.Close(); closeErr != nil {
			return fmt.Errorf("sync: %w (close: %v)", err, closeErr)
		}
		return err
	}

	return s.file.Close()
}

// Path returns the file path
func (s *SlotStore) Path() string {
	return s.config.FilePath
}

// slotCount is called with the mutex held
func (s *SlotStore) slotCount() (int64, error) {
	stat, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if stat.Size()%schema.RecordLen != 0 {
		return 0, ErrCorruptStore
	}
	return stat.Size() / schema.RecordLen, nil
}

// readSlot is called with the mutex held
func (s *SlotStore) readSlot(index int64) (schema.Record, error) {
	buf := make([]byte, schema.RecordLen)
	if _, err := s.file.ReadAt(buf, index*schema.RecordLen); err != nil {
		if err == io.EOF {
			return schema.Record{}, ErrOutOfRange
		}
		return schema.Record{}, fmt.Errorf("%w %d: %w", ErrRead, index, err)
	}
	return s.codec.Decode(buf)
}

// Snapshot copies the whole data file to w while holding the store lock, so
// no append can interleave with the copy.
func (s *SlotStore) Snapshot(w io.Writer) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return 0, ErrStoreClosed
	}

	count, err := s.slotCount()
	if err != nil {
		return 0, err
	}

	return io.Copy(w, io.NewSectionReader(s.file, 0, count*schema.RecordLen))
}
