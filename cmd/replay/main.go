package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"voxelworld.ai/internal/logging"
	persistlog "voxelworld.ai/internal/persistence/log"
	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/store"
)

func main() {
	var (
		snapPath = flag.String("snapshot", "", "path to .snap.zst")
		worldDir = flag.String("world_dir", "", "world dir whose events/ log to summarise (optional)")
		workers  = flag.Int("workers", 0, "verification workers (0 = one per CPU)")
		verbose  = flag.Bool("v", false, "print one line per chunk")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	h := snap.Header
	fmt.Printf("snapshot v%d world=%s tick=%d seed=%d chunk_size=%d clock=%d chunks=%d compressed_bytes=%d\n",
		h.Version, h.WorldID, h.Tick, h.Seed, h.ChunkSize, h.Clock, len(snap.Chunks), snap.CompressedBytes())

	rep, err := verify(snap, *workers, logging.NewConsole("warn"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify:", err)
		os.Exit(1)
	}
	if *verbose {
		for _, r := range rep.Chunks {
			fmt.Println(r)
		}
	}
	fmt.Printf("regenerated=%d verified=%d edited=%d edited_voxels=%d mismatched=%d\n",
		rep.Regenerated, rep.Verified, rep.Edited, rep.EditedVoxels, rep.Mismatched)

	if *worldDir != "" {
		evs, err := persistlog.ReadChunkEvents(*worldDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read events:", err)
			os.Exit(1)
		}
		counts := map[store.EventKind]int{}
		for _, ev := range evs {
			counts[ev.Kind]++
		}
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("events %s=%d\n", k, counts[store.EventKind(k)])
		}
	}

	if rep.Mismatched > 0 {
		os.Exit(1)
	}
}
