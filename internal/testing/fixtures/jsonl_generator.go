// Package fixtures generates JSONL usage logs for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// Entry is one JSONL usage line in the assistant's log format.
type Entry struct {
	Timestamp string   `json:"timestamp"`
	Type      string   `json:"type"`
	Message   *Message `json:"message,omitempty"`
	RequestId string   `json:"requestId,omitempty"`
	CostUSD   *float64 `json:"costUSD,omitempty"`
	Version   string   `json:"version,omitempty"`
	SessionId string   `json:"sessionId,omitempty"`
}

type Message struct {
	Id    string `json:"id,omitempty"`
	Model string `json:"model,omitempty"`
	Usage *Usage `json:"usage,omitempty"`
}

type Usage struct {
	InputTokens              *int `json:"input_tokens,omitempty"`
	OutputTokens             *int `json:"output_tokens,omitempty"`
	CacheCreationInputTokens int  `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int  `json:"cache_read_input_tokens,omitempty"`
}

// Generator writes log files under a base directory laid out the way the
// assistant does: <base>/<project>/<session>/<file>.jsonl.
type Generator struct {
	baseDir string
}

func NewGenerator(baseDir string) *Generator {
	return &Generator{baseDir: baseDir}
}

func (g *Generator) BaseDir() string {
	return g.baseDir
}

// AssistantEntry builds a valid assistant usage line.
func AssistantEntry(ts time.Time, sessionId, messageId, requestId, model string, input, output, cacheCreate, cacheRead int) Entry {
	return Entry{
		Timestamp: ts.Format(time.RFC3339),
		Type:      "assistant",
		SessionId: sessionId,
		RequestId: requestId,
		Version:   "1.0.30",
		Message: &Message{
			Id:    messageId,
			Model: model,
			Usage: &Usage{
				InputTokens:              &input,
				OutputTokens:             &output,
				CacheCreationInputTokens: cacheCreate,
				CacheReadInputTokens:     cacheRead,
			},
		},
	}
}

// WithCost attaches a recorded cost to an entry.
func (e Entry) WithCost(cost float64) Entry {
	e.CostUSD = &cost
	return e
}

// WriteSession writes entries to <base>/<project>/<session>/usage.jsonl.
func (g *Generator) WriteSession(project, session string, entries []Entry) (string, error) {
	dir := filepath.Join(g.baseDir, project, session)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "usage.jsonl")
	return path, g.writeJSONL(path, entries)
}

// WriteRawSession writes pre-rendered lines, for malformed-input tests.
func (g *Generator) WriteRawSession(project, session string, lines []string) (string, error) {
	dir := filepath.Join(g.baseDir, project, session)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "usage.jsonl")

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	for _, line := range lines {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return "", err
		}
	}
	return path, nil
}

// GenerateSteadySession writes one session with an entry every interval.
func (g *Generator) GenerateSteadySession(project, session, model string, start time.Time, count int, interval time.Duration) (string, error) {
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, AssistantEntry(
			start.Add(time.Duration(i)*interval),
			session,
			fmt.Sprintf("msg-%s-%03d", session, i),
			fmt.Sprintf("req-%s-%03d", session, i),
			model,
			1000+i*100, 500+i*50, 50+i*5, 100+i*10,
		))
	}
	return g.WriteSession(project, session, entries)
}

func (g *Generator) writeJSONL(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, entry := range entries {
		line, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(file, string(line)); err != nil {
			return err
		}
	}
	return nil
}
