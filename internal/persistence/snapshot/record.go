package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
)

var ErrBadRecord = errors.New("bad chunk record")

// recordHeaderLen is size(4) + x,y,z(12) + version(4) + data length(4).
const recordHeaderLen = 24

// maxRecordData bounds the RLE payload of one record: two bytes per voxel
// of the largest chunk.
const maxRecordData = 2 * chunk.MaxSize * chunk.MaxSize * chunk.MaxSize

// ChunkRecord is one persisted chunk. Empty Data means the chunk was stored
// without voxel data and must be regenerated from the seed.
type ChunkRecord struct {
	Size    uint32
	Pos     chunk.Position
	Version uint32
	Data    []byte // RLE stream
}

// WriteRecord encodes r little-endian.
func WriteRecord(w io.Writer, r ChunkRecord) error {
	var hdr [recordHeaderLen]byte
	le := binary.LittleEndian
	le.PutUint32(hdr[0:], r.Size)
	le.PutUint32(hdr[4:], uint32(r.Pos.X))
	le.PutUint32(hdr[8:], uint32(r.Pos.Y))
	le.PutUint32(hdr[12:], uint32(r.Pos.Z))
	le.PutUint32(hdr[16:], r.Version)
	le.PutUint32(hdr[20:], uint32(len(r.Data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return nil
	}
	_, err := w.Write(r.Data)
	return err
}

// ReadRecord decodes one record. It returns io.EOF when r is exhausted at a
// record boundary.
func ReadRecord(r io.Reader) (ChunkRecord, error) {
	var rec ChunkRecord
	var hdr [recordHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return rec, fmt.Errorf("%w: truncated header", ErrBadRecord)
		}
		return rec, err
	}
	le := binary.LittleEndian
	rec.Size = le.Uint32(hdr[0:])
	rec.Pos = chunk.Pos(int32(le.Uint32(hdr[4:])), int32(le.Uint32(hdr[8:])), int32(le.Uint32(hdr[12:])))
	rec.Version = le.Uint32(hdr[16:])
	n := le.Uint32(hdr[20:])
	if rec.Size == 0 || rec.Size > chunk.MaxSize {
		return rec, fmt.Errorf("%w: chunk size %d", ErrBadRecord, rec.Size)
	}
	if n > maxRecordData {
		return rec, fmt.Errorf("%w: data length %d", ErrBadRecord, n)
	}
	if n == 0 {
		return rec, nil
	}
	rec.Data = make([]byte, n)
	if _, err := io.ReadFull(r, rec.Data); err != nil {
		return rec, fmt.Errorf("%w: truncated data: %v", ErrBadRecord, err)
	}
	return rec, nil
}
