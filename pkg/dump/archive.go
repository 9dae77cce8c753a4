// Package dump exports collections into compressed archives and restores
// them.
package dump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-arango/pkg/arango"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

const defaultBatchSize = 500

// ExportOptions tune Export
type ExportOptions struct {
	BatchSize int
}

// Export streams every document of c into one archive written to w.
// It returns the number of documents written.
func Export(ctx context.Context, c *arango.Collection, w io.Writer, opts *ExportOptions) (int, error) {
	batchSize := defaultBatchSize
	if opts != nil && opts.BatchSize > 0 {
		batchSize = opts.BatchSize
	}

	cursor, err := c.Query().All(ctx, &arango.SimpleOptions{BatchSize: batchSize})
	if err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", c.Name(), err)
	}

	archive := Archive{
		Collection: c.Name(),
		Type:       int(c.ContentType()),
		Documents:  []map[string]interface{}{},
		Metadata: map[string]interface{}{
			"database":   c.Database().Name(),
			"exportedAt": time.Now().UTC().Format(time.RFC3339),
		},
	}
	err = cursor.Each(ctx, func(d *arango.Document) error {
		doc := d.Map()
		delete(doc, domain.AttrID)
		delete(doc, domain.AttrRev)
		archive.Documents = append(archive.Documents, doc)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", c.Name(), err)
	}

	if err := Write(w, &archive); err != nil {
		return 0, err
	}
	return len(archive.Documents), nil
}

// Write encodes the archive with MessagePack and compresses it with lz4
func Write(w io.Writer, archive *Archive) error {
	msgpackData, err := msgpack.Marshal(archive)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if uint64(len(msgpackData)) > math.MaxUint32 {
		return fmt.Errorf("archive of %s is too large: %d bytes", archive.Collection, len(msgpackData))
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	flags := uint8(0)
	body := compressedData[:n]
	if n == 0 || n >= len(msgpackData) {
		flags |= FlagRaw
		body = msgpackData
	}

	if err := WriteHeader(w, flags, len(msgpackData)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write archive body: %w", err)
	}
	return nil
}

// Read decodes an archive written by Write
func Read(r io.Reader) (*Archive, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid archive header: %w", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive body: %w", err)
	}

	data := body
	if header.Flags&FlagRaw == 0 {
		if uint64(header.RawSize) > uint64(len(body))*maxExpansion {
			return nil, fmt.Errorf("invalid archive header: raw size %d exceeds what %d compressed bytes can hold", header.RawSize, len(body))
		}
		data = make([]byte, header.RawSize)
		n, err := lz4.UncompressBlock(body, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		data = data[:n]
	}

	var archive Archive
	if err := msgpack.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return &archive, nil
}

// Import restores an archive into db. The collection is created when it
// does not exist. It returns the number of documents created.
func Import(ctx context.Context, db *arango.Database, r io.Reader) (int, error) {
	archive, err := Read(r)
	if err != nil {
		return 0, err
	}

	c, err := db.CreateCollection(ctx, archive.Collection, &arango.CreateCollectionOptions{
		ContentType: domain.CollectionType(archive.Type),
	})
	if err != nil {
		var apiErr *domain.Error
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
			return 0, fmt.Errorf("failed to create %s: %w", archive.Collection, err)
		}
		if c, err = db.Collection(ctx, archive.Collection); err != nil {
			return 0, err
		}
	}

	for i, doc := range archive.Documents {
		if _, err := c.CreateDocument(ctx, doc); err != nil {
			return i, fmt.Errorf("failed to restore document %d of %s: %w", i, archive.Collection, err)
		}
	}
	return len(archive.Documents), nil
}
