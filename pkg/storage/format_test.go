package storage

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_WriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHeader(&buf, 0, 1234)
	require.NoError(t, err)

	// 4 bytes magic + version + flags + 2 reserved + 4 bytes length
	assert.Len(t, buf.Bytes(), 12)

	header, err := ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.EqualValues(t, FormatVersion, header.Version)
	assert.Equal(t, uint8(0), header.Flags)
	assert.Equal(t, [2]byte{0, 0}, header.Reserved)
	assert.Equal(t, uint32(1234), header.Length)
}

func TestFileHeader_InvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'G', 'O', 'D', 'B'},
		Version: FormatVersion,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestFileHeader_InvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'J', 'S', 'N', 'P'},
		Version: 99,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file version")
}

func TestFileHeader_ShortBuffer(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 2, 3})

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read header")
}

func TestFileHeader_Endianness(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, FlagUncompressed, 0x01020304))

	data := buf.Bytes()
	assert.Equal(t, []byte("JSNP"), data[0:4])
	assert.Equal(t, byte(FormatVersion), data[4])
	assert.Equal(t, FlagUncompressed, data[5])
	assert.Equal(t, []byte{0, 0}, data[6:8])
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, data[8:12])
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "JSNP", MagicBytes)
	assert.EqualValues(t, uint8(1), FormatVersion)
	assert.Equal(t, ".jsnap", FileExtension)
}
