package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/data/locator"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// Parser turns usage log files into validated UsageEvents. Each line is
// parsed independently; invalid lines are dropped, never fatal.
type Parser struct {
	concurrency int
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   locator.FileRef
	Events []model.UsageEvent
	Err    error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// ParseFile parses one usage file and returns its valid events in line order.
func (p *Parser) ParseFile(ref locator.FileRef) ([]model.UsageEvent, error) {
	file, err := os.Open(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref.Path, err)
	}
	defer file.Close()

	projectPath, sessionId := deriveSessionInfo(ref)

	var events []model.UsageEvent
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	skipped := 0
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		event, ok := parseLine(line)
		if !ok {
			skipped++
			util.LogDebugf("Skip invalid line %s:%d", ref.Path, lineCount)
			continue
		}

		event.ProjectPath = projectPath
		if event.SessionId == "" {
			event.SessionId = sessionId
		}
		event.SourceFile = ref.Path
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("scan %s: %w", ref.Path, err)
	}

	if skipped > 0 {
		util.LogDebugf("File %s: %d of %d lines skipped", ref.Path, skipped, lineCount)
	}
	return events, nil
}

// ParseFiles parses files concurrently, preserving the input order in the
// returned results so callers can process them chronologically.
func (p *Parser) ParseFiles(refs []locator.FileRef) []ParseResult {
	start := time.Now()
	results := make([]ParseResult, len(refs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)

	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref locator.FileRef) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			events, err := p.ParseFile(ref)
			results[i] = ParseResult{File: ref, Events: events, Err: err}
		}(i, ref)
	}
	wg.Wait()

	util.LogDebugf("Parsed %d files in %v", len(refs), time.Since(start))
	return results
}

// parseLine parses and schema-validates one JSONL line.
func parseLine(line string) (model.UsageEvent, bool) {
	var log model.UsageLog
	if err := sonic.UnmarshalString(line, &log); err != nil {
		return model.UsageEvent{}, false
	}

	ts, err := time.Parse(time.RFC3339, log.Timestamp)
	if err != nil {
		return model.UsageEvent{}, false
	}

	usage := log.Message.Usage
	if usage == nil || usage.InputTokens == nil || usage.OutputTokens == nil {
		return model.UsageEvent{}, false
	}

	return model.UsageEvent{
		Timestamp:           ts,
		SessionId:           log.SessionId,
		MessageId:           log.Message.Id,
		RequestId:           log.RequestId,
		Model:               log.Message.Model,
		Version:             log.Version,
		InputTokens:         *usage.InputTokens,
		OutputTokens:        *usage.OutputTokens,
		CacheCreationTokens: usage.CacheCreationInputTokens,
		CacheReadTokens:     usage.CacheReadInputTokens,
		CostUSD:             log.CostUSD,
	}, true
}

// deriveSessionInfo derives the project path and session id from the two
// path segments immediately enclosing the file, relative to its base dir.
func deriveSessionInfo(ref locator.FileRef) (projectPath, sessionId string) {
	rel, err := filepath.Rel(ref.BaseDir, ref.Path)
	if err != nil {
		rel = ref.Path
	}
	parts := strings.Split(rel, string(filepath.Separator))

	stem := strings.TrimSuffix(parts[len(parts)-1], filepath.Ext(parts[len(parts)-1]))

	switch {
	case len(parts) >= 3:
		projectPath = strings.Join(parts[:len(parts)-2], "/")
		sessionId = parts[len(parts)-2]
	case len(parts) == 2:
		projectPath = parts[0]
		sessionId = stem
	default:
		sessionId = stem
	}
	return projectPath, sessionId
}
