package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify our snapshot format
	MagicBytes = "JSNP"
	// Current version
	FormatVersion = 1
	// File extension for snapshots
	FileExtension = ".jsnap"
)

const (
	// FlagUncompressed marks a payload stored without LZ4 compression
	FlagUncompressed uint8 = 1 << iota
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "JSNP"
	Version  uint8   // Format version
	Flags    uint8   // Payload flags
	Reserved [2]byte // Reserved for future use
	Length   uint32  // Uncompressed payload length
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, length uint32) error {
	header := FileHeader{
		Magic:    [4]byte{'J', 'S', 'N', 'P'},
		Version:  FormatVersion,
		Flags:    flags,
		Reserved: [2]byte{0, 0},
		Length:   length,
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// SnapshotData represents the payload we store inside a snapshot
type SnapshotData struct {
	Collections interface{}            `msgpack:"collections"`
	Metadata    map[string]interface{} `msgpack:"metadata,omitempty"`
}
