package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dreamcatcher45/jserve/pkg/domain"
	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// maxSnapshotLength caps the decoded payload size read from a header
	maxSnapshotLength = 1 << 30
	// maxCompressionRatio bounds how far an LZ4 block can expand
	maxCompressionRatio = 255
)

// WriteSnapshot writes db to path as an LZ4-compressed MessagePack snapshot
func WriteSnapshot(db *Database, path string) error {
	data, err := encodeSnapshot(db)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data, filePerm)
}

// ReadSnapshot loads and validates a snapshot written by WriteSnapshot
func ReadSnapshot(path string, newID func() string) (*Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid snapshot header: %v", domain.ErrCorruptFile, err)
	}
	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot data: %w", err)
	}

	if header.Length > maxSnapshotLength || uint64(header.Length) > uint64(len(payload))*maxCompressionRatio {
		return nil, fmt.Errorf("%w: snapshot length %d is not plausible for %d bytes of data", domain.ErrCorruptFile, header.Length, len(payload))
	}

	if header.Flags&FlagUncompressed == 0 {
		decompressed := make([]byte, header.Length)
		n, err := lz4.UncompressBlock(payload, decompressed)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decompress snapshot: %v", domain.ErrCorruptFile, err)
		}
		payload = decompressed[:n]
	}
	if uint32(len(payload)) != header.Length {
		return nil, fmt.Errorf("%w: snapshot length mismatch: header says %d, got %d", domain.ErrCorruptFile, header.Length, len(payload))
	}

	var snap SnapshotData
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: failed to decode MessagePack: %v", domain.ErrCorruptFile, err)
	}
	return decodeDatabase(fromSnapshotValue(snap.Collections), newID)
}

func encodeSnapshot(db *Database) ([]byte, error) {
	collections, err := snapshotCollections(db.export())
	if err != nil {
		return nil, err
	}
	snap := SnapshotData{
		Collections: collections,
		Metadata: map[string]interface{}{
			"created_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	msgpackData, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressed, hashTable[:])
	if err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	flags := uint8(0)
	payload := compressed[:n]
	if n == 0 || n >= len(msgpackData) {
		flags |= FlagUncompressed
		payload = msgpackData
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, flags, uint32(len(msgpackData))); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

// WriteSnapshot writes the current database to the configured snapshot file
func (se *StorageEngine) WriteSnapshot() error {
	if se.snapshotFile == "" {
		return fmt.Errorf("no snapshot file configured")
	}
	var (
		data    []byte
		version uint64
	)
	err := se.withRead(func() error {
		var err error
		data, err = encodeSnapshot(se.db)
		version = se.version
		return err
	})
	if err != nil {
		return err
	}
	if err := atomicWriteFile(se.snapshotFile, data, filePerm); err != nil {
		return err
	}
	se.withWrite(func() error {
		if version > se.snapshotVersion {
			se.snapshotVersion = version
		}
		return nil
	})
	return nil
}

// RestoreSnapshot converts the snapshot at snapshotPath into a backing file at dataPath
func RestoreSnapshot(snapshotPath, dataPath string) (*Database, error) {
	db, err := ReadSnapshot(snapshotPath, uuid.NewString)
	if err != nil {
		return nil, err
	}
	if err := Save(db, dataPath); err != nil {
		return nil, err
	}
	return db, nil
}
