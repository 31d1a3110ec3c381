package sorter

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-usage-ledger/internal/data/locator"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// Window and block construction needs events in global chronological order
// across files; per-file internal ordering alone does not guarantee that.
// The sorter keys each file by its earliest parseable timestamp.

// timestampProbe decodes just enough of a line to find its timestamp.
type timestampProbe struct {
	Timestamp string `json:"timestamp"`
}

type fileWithTimestamp struct {
	ref       locator.FileRef
	order     int
	timestamp *time.Time
}

// Sorter orders usage files chronologically by earliest event timestamp.
type Sorter struct {
	concurrency int
	maxScan     int
}

// New creates a Sorter with the given pre-scan concurrency.
func New(concurrency int) *Sorter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sorter{
		concurrency: concurrency,
		maxScan:     100,
	}
}

// Sort returns the refs ordered by each file's earliest timestamp. Files
// with no parseable timestamp sort after all timestamped files, keeping
// their discovery order as the tie-break.
func (s *Sorter) Sort(refs []locator.FileRef) []locator.FileRef {
	if len(refs) <= 1 {
		return refs
	}

	start := time.Now()
	keyed := make([]fileWithTimestamp, len(refs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.concurrency)
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref locator.FileRef) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			keyed[i] = fileWithTimestamp{ref: ref, order: i}
			if ts, ok := s.earliestTimestamp(ref.Path); ok {
				keyed[i].timestamp = &ts
			}
		}(i, ref)
	}
	wg.Wait()

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.timestamp == nil && b.timestamp == nil {
			return a.order < b.order
		}
		if a.timestamp == nil {
			return false
		}
		if b.timestamp == nil {
			return true
		}
		if a.timestamp.Equal(*b.timestamp) {
			return a.order < b.order
		}
		return a.timestamp.Before(*b.timestamp)
	})

	result := make([]locator.FileRef, len(keyed))
	for i, item := range keyed {
		result[i] = item.ref
	}

	util.LogDebugf("Sorted %d files by earliest timestamp in %v", len(refs), time.Since(start))
	return result
}

// earliestTimestamp scans a file top to bottom until a line with a valid
// timestamp parses.
func (s *Sorter) earliestTimestamp(path string) (time.Time, bool) {
	file, err := os.Open(path)
	if err != nil {
		util.LogDebugf("Cannot open %s for timestamp scan: %v", path, err)
		return time.Time{}, false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lines := 0
	for scanner.Scan() && lines < s.maxScan {
		lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var probe timestampProbe
		if err := sonic.UnmarshalString(line, &probe); err != nil {
			continue
		}
		if probe.Timestamp == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, probe.Timestamp); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}
