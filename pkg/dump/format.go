package dump

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	// Magic bytes identifying an archive
	MagicBytes = "ADMP"
	// Current version
	FormatVersion = 1
	// File extension of archives
	FileExtension = ".admp"
)

// Header flags
const (
	// FlagRaw marks a body stored without compression
	FlagRaw uint8 = 1 << iota
)

// maxExpansion is the largest ratio between an lz4 block and its input
const maxExpansion = 255

// FileHeader precedes the archive body
type FileHeader struct {
	Magic    [4]byte // "ADMP"
	Version  uint8   // Format version
	Flags    uint8
	Reserved [2]byte
	RawSize  uint32 // Length of the uncompressed body
}

// WriteHeader writes the archive header to the given writer
func WriteHeader(w io.Writer, flags uint8, rawSize int) error {
	if rawSize < 0 || uint64(rawSize) > math.MaxUint32 {
		return fmt.Errorf("archive body of %d bytes does not fit the header", rawSize)
	}
	header := FileHeader{
		Magic:   [4]byte{'A', 'D', 'M', 'P'},
		Version: FormatVersion,
		Flags:   flags,
		RawSize: uint32(rawSize),
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the archive header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid archive format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported archive version: %d", header.Version)
	}

	return &header, nil
}

// Archive is the content of one dumped collection
type Archive struct {
	Collection string                   `msgpack:"collection"`
	Type       int                      `msgpack:"type"`
	Documents  []map[string]interface{} `msgpack:"documents"`
	Metadata   map[string]interface{}   `msgpack:"metadata,omitempty"`
}
