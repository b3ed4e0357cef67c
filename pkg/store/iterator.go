package store

import (
	"errors"

	"github.com/ssargent/prodfile/pkg/codec"
	"github.com/ssargent/prodfile/pkg/schema"
)

// SlotIterator walks the slots that existed when Scan was called, in
// ascending order. A slot that fails to decode is reported through RecordErr
// and iteration carries on with the next slot. I/O failures stop the walk and
// are returned by Err.
type SlotIterator struct {
	store  *SlotStore
	count  int64
	next   int64
	slot   int64
	record schema.Record
	recErr error
	err    error
}

// Next advances to the next slot
func (it *SlotIterator) Next() bool {
	if it.err != nil || it.next >= it.count {
		return false
	}

	it.slot = it.next
	it.next++
	it.record, it.recErr = it.read(it.slot)

	if it.recErr != nil && !isSlotLocal(it.recErr) {
		it.err = it.recErr
		return false
	}
	return true
}

// Slot returns the index of the current slot
func (it *SlotIterator) Slot() int64 {
	return it.slot
}

// Record returns the current record and its decode error, if any
func (it *SlotIterator) Record() (schema.Record, error) {
	return it.record, it.recErr
}

// RecordErr returns the decode error of the current slot
func (it *SlotIterator) RecordErr() error {
	return it.recErr
}

// Count returns the number of slots this pass covers
func (it *SlotIterator) Count() int64 {
	return it.count
}

// Err returns the error that stopped iteration early
func (it *SlotIterator) Err() error {
	return it.err
}

// Close releases the iterator. The store stays open.
func (it *SlotIterator) Close() error {
	it.next = it.count
	return nil
}

func (it *SlotIterator) read(index int64) (schema.Record, error) {
	s := it.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return schema.Record{}, ErrStoreClosed
	}
	return s.readSlot(index)
}

// isSlotLocal reports whether err concerns a single slot's contents
func isSlotLocal(err error) bool {
	var decErr *codec.DecodeError
	return errors.As(err, &decErr)
}
