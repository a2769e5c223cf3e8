package storage

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"mynd/internal/todo"
)

// Current schema version - increment when the frame payload changes
const binarySchemaVersion uint16 = 1

const maxFrameSize = 1 << 20

var binaryMagic = [4]byte{'M', 'Y', 'N', 'D'}

// BinaryFile stores the list as a stack of length-prefixed msgpack frames:
//
//	"MYND" | uint16 version (big endian) | { uvarint len | msgpack record }
//
// Frames are written newest first.
type BinaryFile struct {
	mu   sync.RWMutex
	path string
}

var _ todo.Database = (*BinaryFile)(nil)

func NewBinaryFile(path string) *BinaryFile {
	return &BinaryFile{path: path}
}

// Path returns the backing file.
func (s *BinaryFile) Path() string { return s.path }

// Load reads every frame. A missing or empty file is an empty list.
func (s *BinaryFile) Load(ctx context.Context) ([]todo.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := decodeBinary(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	if err := checkRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeBinary(r *bufio.Reader) ([]todo.Record, error) {
	var header [6]byte
	n, err := io.ReadFull(r, header[:])
	if n == 0 && errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: short header", ErrSchema)
	}
	if [4]byte(header[:4]) != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrSchema, header[:4])
	}
	if v := binary.BigEndian.Uint16(header[4:]); v != binarySchemaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSchema, v)
	}

	var records []todo.Record
	buf := make([]byte, 0, 256)
	for {
		size, err := binary.ReadUvarint(r)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d length: %v", ErrSchema, len(records), err)
		}
		if size > maxFrameSize {
			return nil, fmt.Errorf("%w: frame %d too large (%d bytes)", ErrSchema, len(records), size)
		}
		if uint64(cap(buf)) < size {
			buf = make([]byte, size)
		}
		buf = buf[:size]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: frame %d truncated", ErrSchema, len(records))
		}
		var rec todo.Record
		if err := msgpack.Unmarshal(buf, &rec); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrSchema, len(records), err)
		}
		records = append(records, rec)
	}
}

// Save writes the records atomically.
func (s *BinaryFile) Save(ctx context.Context, records []todo.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeAtomic(s.path, func(w io.Writer) error {
		return encodeBinary(w, records)
	})
}

func encodeBinary(w io.Writer, records []todo.Record) error {
	var header [6]byte
	copy(header[:4], binaryMagic[:])
	binary.BigEndian.PutUint16(header[4:], binarySchemaVersion)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	var lenBuf [binary.MaxVarintLen64]byte
	for i := range records {
		payload, err := msgpack.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("encode todo %s: %w", records[i].ID.Short(), err)
		}
		n := binary.PutUvarint(lenBuf[:], uint64(len(payload)))
		if _, err := w.Write(lenBuf[:n]); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *BinaryFile) Close() error { return nil }
