package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryLayout(t *testing.T) {
	var buf bytes.Buffer
	records := sampleRecords()
	require.NoError(t, encodeBinary(&buf, records))

	raw := buf.Bytes()
	assert.Equal(t, []byte("MYND"), raw[:4])
	assert.Equal(t, binarySchemaVersion, binary.BigEndian.Uint16(raw[4:6]))

	got, err := decodeBinary(bufio.NewReader(bytes.NewReader(raw)))
	require.NoError(t, err)
	requireSameRecords(t, records, got)
}

func TestBinaryRejectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeBinary(&buf, sampleRecords()))
	good := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", good[:3]},
		{"bad magic", append([]byte("NOPE"), good[4:]...)},
		{"bad version", append(append([]byte("MYND"), 0, 9), good[6:]...)},
		{"truncated frame", good[:len(good)-2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeBinary(bufio.NewReader(bytes.NewReader(tt.data)))
			require.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestBinaryEmptyFile(t *testing.T) {
	s := NewBinaryFile(writeFile(t, "todo.bin", ""))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
