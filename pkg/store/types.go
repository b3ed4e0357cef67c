package store

import (
	"errors"

	"github.com/ssargent/prodfile/pkg/schema"
)

// DefaultDataFile is the data file used when no path is configured
const DefaultDataFile = "products.dat"

// SlotStoreConfig holds configuration for the slot store
type SlotStoreConfig struct {
	FilePath   string // Path to the data file
	SyncWrites bool   // fsync after every append
}

// Appender adds records to the end of a store
type Appender interface {
	Append(r schema.Record) (int64, error)
	SlotCount() (int64, error)
}

// Scanner walks every slot of a store
type Scanner interface {
	Scan() (*SlotIterator, error)
}

// Reader reads single slots
type Reader interface {
	ReadSlot(index int64) (schema.Record, error)
	SlotCount() (int64, error)
}

// Errors
var (
	ErrOutOfRange   = &SlotError{"slot index out of range"}
	ErrCorruptStore = &SlotError{"store length is not a multiple of the record length"}
	ErrStoreClosed  = &SlotError{"store is not open"}

	// ErrOpen and ErrWrite wrap the underlying I/O error
	ErrOpen  = errors.New("open store")
	ErrWrite = errors.New("write slot")
	ErrRead  = errors.New("read slot")
)

// SlotError represents a slot store error
type SlotError struct {
	Message string
}

func (e *SlotError) Error() string {
	return e.Message
}
