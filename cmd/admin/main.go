package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		case "list":
			listCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

// listCmd lists worlds, or the snapshots of one world.
func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world dir name (optional; lists its snapshots)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID == "" {
		entries, err := os.ReadDir(base)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			if e.IsDir() {
				fmt.Println(e.Name())
			}
		}
		return
	}

	ticks, err := snapshotTicks(filepath.Join(base, *worldID, "snapshots"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, t := range ticks {
		fmt.Println(snapshot.FileName(t))
	}
}

func snapshotTicks(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ticks []uint64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		t, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	return ticks, nil
}

// snapshotCmd prints one line per chunk record with its voxel histogram.
func snapshotCmd(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world dir name (used when -path is empty)")
	path := fs.String("path", "", "snapshot path (optional; defaults to the world's latest)")
	top := fs.Int("top", 3, "voxel types to show per chunk")
	_ = fs.Parse(args)

	p := strings.TrimSpace(*path)
	if p == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -path or -world")
			os.Exit(2)
		}
		p = snapshot.Latest(filepath.Join(*dataDir, "worlds", *worldID, "snapshots"))
		if p == "" {
			fmt.Fprintln(os.Stderr, "no snapshots found")
			os.Exit(2)
		}
	}

	snap, err := snapshot.ReadSnapshot(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	h := snap.Header
	fmt.Printf("%s world=%s tick=%d seed=%d chunk_size=%d chunks=%d compressed_bytes=%d\n",
		filepath.Base(p), h.WorldID, h.Tick, h.Seed, h.ChunkSize, len(snap.Chunks), snap.CompressedBytes())
	for _, rec := range snap.Chunks {
		fmt.Println(describeRecord(rec, *top))
	}
}

func describeRecord(rec snapshot.ChunkRecord, top int) string {
	if len(rec.Data) == 0 {
		return fmt.Sprintf("%v v%d seed-only", rec.Pos, rec.Version)
	}
	ch, err := chunk.FromCompressed(rec.Pos, int(rec.Size), rec.Version, rec.Data)
	if err != nil {
		return fmt.Sprintf("%v v%d error: %v", rec.Pos, rec.Version, err)
	}
	return fmt.Sprintf("%v v%d bytes=%d %s", rec.Pos, rec.Version, len(rec.Data), histogram(ch, top))
}

// histogram renders the top most common voxel types of ch.
func histogram(ch *chunk.Chunk, top int) string {
	type kv struct {
		t voxel.Type
		n int
	}
	var counts []kv
	for t := 0; t < 256; t++ {
		if n := ch.Count(voxel.Type(t)); n > 0 {
			counts = append(counts, kv{voxel.Type(t), n})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].n != counts[j].n {
			return counts[i].n > counts[j].n
		}
		return counts[i].t < counts[j].t
	})
	if top > 0 && len(counts) > top {
		counts = counts[:top]
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", c.t, c.n))
	}
	return strings.Join(parts, " ")
}
