// bench-heap measures heap memory held by each container kind after it is
// filled with n ints and again after Clear.
//
// Usage:
//
//	go run ./scripts/bench-heap --n 1000000 --containers set,deque,xorlist \
//	  --profile-dir docs/profiles/heap
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/containers/pkg/deque"
	"github.com/Sumatoshi-tech/containers/pkg/list"
	"github.com/Sumatoshi-tech/containers/pkg/ordered"
	"github.com/Sumatoshi-tech/containers/pkg/unordered"
	"github.com/Sumatoshi-tech/containers/pkg/vector"
	"github.com/Sumatoshi-tech/containers/pkg/xorlist"
)

// filler fills a fresh container with n ints and returns its Clear.
type filler func(n int) (release func())

var fillers = map[string]filler{
	"set": func(n int) func() {
		s := ordered.NewOrderedSet[int]()
		for i := range n {
			s.Insert(i)
		}

		return s.Clear
	},
	"map": func(n int) func() {
		m := ordered.NewOrderedMap[int, int]()
		for i := range n {
			m.Insert(i, i)
		}

		return m.Clear
	},
	"unordered_set": func(n int) func() {
		s := unordered.NewComparableSet[int]()
		for i := range n {
			s.Insert(i)
		}

		return s.Clear
	},
	"unordered_map": func(n int) func() {
		m := unordered.NewComparableMap[int, int]()
		for i := range n {
			m.Insert(i, i)
		}

		return m.Clear
	},
	"deque": func(n int) func() {
		d := deque.New[int]()
		for i := range n {
			d.PushBack(i)
		}

		return d.Clear
	},
	"vector": func(n int) func() {
		v := vector.New[int]()
		for i := range n {
			v.PushBack(i)
		}

		return v.Clear
	},
	"list": func(n int) func() {
		l := list.New[int]()
		for i := range n {
			l.PushBack(i)
		}

		return l.Clear
	},
	"xorlist": func(n int) func() {
		l := xorlist.New[int]()
		for i := range n {
			l.PushBack(i)
		}

		return l.Clear
	},
}

type heapSnapshot struct {
	label     string
	heapInUse uint64
	elapsed   time.Duration
}

func main() {
	n := flag.Int("n", 1_000_000, "Elements per container")
	names := flag.String("containers", "", "Comma-separated container kinds (default: all)")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles (optional)")

	flag.Parse()

	kinds := selectKinds(*names)

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string, elapsed time.Duration) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		snapshots = append(snapshots, heapSnapshot{label: label, heapInUse: m.HeapInuse, elapsed: elapsed})
		log.Printf("  [heap] %-28s inuse=%7.1f MB  elapsed=%s", label, float64(m.HeapInuse)/1e6, elapsed)
	}

	writeHeapProfile := func(name string) {
		if *profileDir == "" {
			return
		}

		path := filepath.Join(*profileDir, name)

		f, err := os.Create(path)
		if err != nil {
			log.Printf("warning: create heap profile %s: %v", path, err)

			return
		}
		defer f.Close()

		if err = pprof.WriteHeapProfile(f); err != nil {
			log.Printf("warning: write heap profile %s: %v", path, err)
		}
	}

	takeSnapshot("baseline", 0)

	for _, kind := range kinds {
		log.Printf("filling %s with %d ints", kind, *n)

		start := time.Now()
		release := fillers[kind](*n)
		fill := time.Since(start)

		takeSnapshot(kind+"_filled", fill)
		writeHeapProfile(fmt.Sprintf("heap_%s_filled.prof", kind))

		start = time.Now()
		release()
		takeSnapshot(kind+"_cleared", time.Since(start))
		runtime.KeepAlive(release)
	}

	printSummary(snapshots[0].heapInUse, snapshots[1:])
}

func selectKinds(raw string) []string {
	if raw == "" {
		kinds := make([]string, 0, len(fillers))
		for name := range fillers {
			kinds = append(kinds, name)
		}

		slices.Sort(kinds)

		return kinds
	}

	kinds := strings.Split(raw, ",")
	for _, kind := range kinds {
		if _, ok := fillers[kind]; !ok {
			log.Fatalf("unknown container %q", kind)
		}
	}

	return kinds
}

func printSummary(baseline uint64, snapshots []heapSnapshot) {
	fmt.Println()
	fmt.Printf("%-28s %12s %12s\n", "Snapshot", "Delta MB", "Elapsed")

	for _, s := range snapshots {
		delta := float64(int64(s.heapInUse)-int64(baseline)) / 1e6 //nolint:gosec // heap sizes fit in int64.
		fmt.Printf("%-28s %12.1f %12s\n", s.label, delta, s.elapsed.Round(time.Microsecond))
	}
}
