package store

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/prodfile/pkg/codec"
	"github.com/ssargent/prodfile/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*SlotStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.dat")

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func product(i int) schema.Record {
	return schema.Record{
		ID:          fmt.Sprintf("P%d", i),
		Name:        fmt.Sprintf("Product %d", i),
		Description: fmt.Sprintf("Description for product %d", i),
		Cost:        float64(i) + 0.25,
	}
}

func TestOpen(t *testing.T) {
	s, path := openTestStore(t)

	assert.FileExists(t, path)
	assert.Equal(t, path, s.Path())

	count, err := s.SlotCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestOpen_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(nestedDir, "products.dat")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.DirExists(t, nestedDir)
}

func TestOpen_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened as the data file
	s, err := Open(dir)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSlotStore_AppendAndRead(t *testing.T) {
	s, _ := openTestStore(t)

	const k = 10
	for i := 0; i < k; i++ {
		slot, err := s.Append(product(i))
		require.NoError(t, err)
		assert.Equal(t, int64(i), slot)
	}

	count, err := s.SlotCount()
	require.NoError(t, err)
	assert.Equal(t, int64(k), count)

	for i := 0; i < k; i++ {
		r, err := s.ReadSlot(int64(i))
		require.NoError(t, err)
		assert.Equal(t, product(i), r)
	}

	size, err := s.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(k*schema.RecordLen), size)
}

func TestSlotStore_OffsetLayout(t *testing.T) {
	s, path := openTestStore(t)

	_, err := s.Append(product(1))
	require.NoError(t, err)
	_, err = s.Append(product(2))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 2*schema.RecordLen)

	second, err := codec.Decode(data[schema.RecordLen:])
	require.NoError(t, err)
	assert.Equal(t, product(2), second)
}

func TestSlotStore_ReadSlotOutOfRange(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.ReadSlot(0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.Append(product(1))
	require.NoError(t, err)

	_, err = s.ReadSlot(1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.ReadSlot(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// The store stays usable after a failed read
	r, err := s.ReadSlot(0)
	require.NoError(t, err)
	assert.Equal(t, product(1), r)
}

func TestSlotStore_AppendRejectsInvalid(t *testing.T) {
	s, _ := openTestStore(t)

	testCases := []struct {
		name   string
		record schema.Record
		want   error
	}{
		{"empty id", schema.Record{Name: "Widget"}, schema.ErrEmptyField},
		{"empty name", schema.Record{ID: "P1"}, schema.ErrEmptyField},
		{"blank id", schema.Record{ID: "   ", Name: "Widget"}, schema.ErrEmptyField},
		{"blank name", schema.Record{ID: "P1", Name: "  "}, schema.ErrEmptyField},
		{"id too long", schema.Record{ID: "P1234567", Name: "Widget"}, schema.ErrFieldTooLong},
		{"negative cost", schema.Record{ID: "P1", Name: "Widget", Cost: -1}, schema.ErrNegativeCost},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Append(tc.record)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	count, err := s.SlotCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "rejected records must not reach the file")
}

func TestSlotStore_AppendNormalizes(t *testing.T) {
	s, _ := openTestStore(t)

	slot, err := s.Append(schema.Record{ID: " P1", Name: " Widget ", Description: "padded  ", Cost: math.Copysign(0, -1)})
	require.NoError(t, err)

	r, err := s.ReadSlot(slot)
	require.NoError(t, err, "a record accepted by Append must read back")
	assert.Equal(t, schema.Record{ID: "P1", Name: "Widget", Description: "padded", Cost: 0}, r)
	assert.False(t, math.Signbit(r.Cost))
	assert.NoError(t, r.Validate())

	it, err := s.Scan()
	require.NoError(t, err)
	defer it.Close()
	require.True(t, it.Next())
	assert.NoError(t, it.RecordErr())
}

func TestSlotStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.dat")

	s, err := OpenWithConfig(SlotStoreConfig{FilePath: path, SyncWrites: true})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.Append(product(i))
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	count, err := s.SlotCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Appends continue after the existing slots
	slot, err := s.Append(product(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), slot)

	r, err := s.ReadSlot(0)
	require.NoError(t, err)
	assert.Equal(t, product(0), r)
}

func TestSlotStore_CorruptLength(t *testing.T) {
	s, path := openTestStore(t)

	_, err := s.Append(product(1))
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.SlotCount()
	assert.ErrorIs(t, err, ErrCorruptStore)

	_, err = s.Scan()
	assert.ErrorIs(t, err, ErrCorruptStore)

	_, err = s.Append(product(2))
	assert.ErrorIs(t, err, ErrCorruptStore)
}

func TestSlotStore_Closed(t *testing.T) {
	s, _ := openTestStore(t)

	_, err := s.Append(product(1))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	// Second close is a no-op
	require.NoError(t, s.Close())

	_, err = s.Append(product(2))
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.ReadSlot(0)
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.SlotCount()
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.Scan()
	assert.ErrorIs(t, err, ErrStoreClosed)

	assert.ErrorIs(t, s.Sync(), ErrStoreClosed)
}

func TestSlotError_Message(t *testing.T) {
	assert.Equal(t, "slot index out of range", ErrOutOfRange.Error())
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", ErrCorruptStore), ErrCorruptStore))
}
