package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelworld.ai/internal/sim/world/terrain/gen"
)

const FormatVersion = 1

type Header struct {
	Version   int    `json:"version"`
	WorldID   string `json:"world_id"`
	Tick      uint64 `json:"tick"`
	Seed      int64  `json:"seed"`
	ChunkSize int    `json:"chunk_size"`
	Clock     uint64 `json:"clock"`
	Chunks    int    `json:"chunks"`

	// Terrain is needed to regenerate records stored without data.
	Terrain gen.TerrainParams `json:"terrain"`
}

type Snapshot struct {
	Header Header
	Chunks []ChunkRecord
}

// CompressedBytes sums the RLE payload of every record.
func (s Snapshot) CompressedBytes() int {
	n := 0
	for _, c := range s.Chunks {
		n += len(c.Data)
	}
	return n
}

// WriteSnapshot writes a zstd stream holding one JSON header line followed
// by the chunk records.
func WriteSnapshot(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	snap.Header.Version = FormatVersion
	snap.Header.Chunks = len(snap.Chunks)

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := encode(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func encode(w io.Writer, snap Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	for i, rec := range snap.Chunks {
		if err := WriteRecord(bw, rec); err != nil {
			_ = enc.Close()
			return fmt.Errorf("chunk record %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// maxPrealloc caps the record slice reserved from the header count.
const maxPrealloc = 4096

func ReadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &snap.Header); err != nil {
		return snap, fmt.Errorf("decode header: %w", err)
	}
	if snap.Header.Version != FormatVersion {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	if snap.Header.Chunks < 0 {
		return snap, fmt.Errorf("%w: negative chunk count %d", ErrBadRecord, snap.Header.Chunks)
	}
	snap.Chunks = make([]ChunkRecord, 0, min(snap.Header.Chunks, maxPrealloc))
	for {
		rec, err := ReadRecord(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return snap, fmt.Errorf("chunk record %d: %w", len(snap.Chunks), err)
		}
		snap.Chunks = append(snap.Chunks, rec)
	}
	if len(snap.Chunks) != snap.Header.Chunks {
		return snap, fmt.Errorf("%w: header says %d chunks, read %d", ErrBadRecord, snap.Header.Chunks, len(snap.Chunks))
	}
	return snap, nil
}

// FileName is the on-disk name of the snapshot taken at tick.
func FileName(tick uint64) string {
	return fmt.Sprintf("%d.snap.zst", tick)
}

// Latest returns the snapshot in dir with the highest tick, or "" if none.
func Latest(dir string) string {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	type cand struct {
		tick uint64
		name string
	}
	var cands []cand
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		t, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		cands = append(cands, cand{tick: t, name: name})
	}
	if len(cands) == 0 {
		return ""
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].tick < cands[j].tick })
	return filepath.Join(dir, cands[len(cands)-1].name)
}
