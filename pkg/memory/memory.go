// Package memory implements bounded conversation memory with lossy
// compression of older turns into a running summary memo.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tripplanner/pkg/logx"
	"tripplanner/pkg/utils"
)

// DefaultMaxTurns bounds how many full turns are kept before compression.
const DefaultMaxTurns = 8

// Compressor summarizes conversation history into a compact memo.
type Compressor interface {
	Compress(ctx context.Context, history string) (string, error)
}

// Turn is one user/assistant exchange.
type Turn struct {
	User      string
	Assistant string
}

// ConversationMemory holds recent turns verbatim plus a summary memo of
// everything older. Safe for concurrent use.
type ConversationMemory struct {
	compressor Compressor
	logger     *logx.Logger
	counter    *utils.TokenCounter
	memo       string
	turns      []Turn
	maxTurns   int
	mu         sync.Mutex
}

// New creates a conversation memory. maxTurns values below one fall back
// to the default.
func New(compressor Compressor, maxTurns int) *ConversationMemory {
	if maxTurns < 1 {
		maxTurns = DefaultMaxTurns
	}
	counter, err := utils.NewTokenCounter()
	if err != nil {
		counter = nil
	}
	return &ConversationMemory{
		compressor: compressor,
		logger:     logx.NewLogger("memory"),
		counter:    counter,
		maxTurns:   maxTurns,
	}
}

// AddTurn records one exchange and compresses the oldest turns once the
// buffer exceeds its bound. Compression failure is logged and the turns
// stay intact, so no history is lost silently.
func (m *ConversationMemory) AddTurn(ctx context.Context, user, assistant string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, Turn{User: user, Assistant: assistant})
	if len(m.turns) <= m.maxTurns {
		return
	}

	keep := m.maxTurns / 2
	old := m.turns[:len(m.turns)-keep]
	history := renderTurns(old)

	if m.compressor == nil {
		m.logger.Warn("no compressor configured, keeping %d turns uncompressed", len(m.turns))
		return
	}

	summary, err := m.compressor.Compress(ctx, history)
	if err != nil {
		m.logger.Warn("compression failed, keeping %d turns uncompressed: %v", len(m.turns), err)
		return
	}

	if m.memo == "" {
		m.memo = summary
	} else {
		m.memo += "\n\nAdditional context: " + summary
	}
	m.turns = append([]Turn(nil), m.turns[len(m.turns)-keep:]...)
	m.logger.Debug("compressed %d turns into memo (%d tokens)", len(old), m.counter.CountTokens(m.memo))
}

// Context renders the memo plus the most recent turns for prompt injection.
// Returns empty when there is no history at all.
func (m *ConversationMemory) Context() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.memo == "" && len(m.turns) == 0 {
		return ""
	}

	var b strings.Builder
	if m.memo != "" {
		fmt.Fprintf(&b, "Previous conversation summary: %s\n\n", m.memo)
	}
	if len(m.turns) > 0 {
		b.WriteString("Recent conversation:\n")
		recent := m.turns
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		b.WriteString(renderTurns(recent))
	}
	return b.String()
}

// TurnCount reports how many full turns are currently held.
func (m *ConversationMemory) TurnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// Memo returns the current summary memo.
func (m *ConversationMemory) Memo() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memo
}

func renderTurns(turns []Turn) string {
	var b strings.Builder
	for i := range turns {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n\n", turns[i].User, turns[i].Assistant)
	}
	return b.String()
}
