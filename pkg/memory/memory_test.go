package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompressor struct {
	summary string
	err     error
	calls   int
	lastIn  string
}

func (f *fakeCompressor) Compress(_ context.Context, history string) (string, error) {
	f.calls++
	f.lastIn = history
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func fill(m *ConversationMemory, n int) {
	for i := 1; i <= n; i++ {
		m.AddTurn(context.Background(), fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}
}

func TestAddTurnBelowLimitNoCompression(t *testing.T) {
	c := &fakeCompressor{summary: "memo"}
	m := New(c, 4)

	fill(m, 4)

	assert.Equal(t, 4, m.TurnCount())
	assert.Zero(t, c.calls)
	assert.Empty(t, m.Memo())
}

func TestAddTurnCompressesOldestHalf(t *testing.T) {
	c := &fakeCompressor{summary: "the user is planning a Dubai trip"}
	m := New(c, 4)

	fill(m, 5)

	require.Equal(t, 1, c.calls)
	assert.Equal(t, 2, m.TurnCount(), "only the newest half survives")
	assert.Equal(t, "the user is planning a Dubai trip", m.Memo())
	assert.Contains(t, c.lastIn, "question 1")
	assert.Contains(t, c.lastIn, "Assistant: answer 3")
	assert.NotContains(t, c.lastIn, "question 4")
}

func TestAddTurnAppendsToExistingMemo(t *testing.T) {
	c := &fakeCompressor{summary: "first summary"}
	m := New(c, 2)

	fill(m, 3)
	require.Equal(t, "first summary", m.Memo())

	c.summary = "second summary"
	fill(m, 2)

	assert.Contains(t, m.Memo(), "first summary")
	assert.Contains(t, m.Memo(), "Additional context: second summary")
}

func TestCompressionFailureKeepsTurns(t *testing.T) {
	c := &fakeCompressor{err: errors.New("provider down")}
	m := New(c, 4)

	fill(m, 5)

	assert.Equal(t, 5, m.TurnCount(), "no turns are lost when compression fails")
	assert.Empty(t, m.Memo())
}

func TestContextRendersMemoAndRecentTurns(t *testing.T) {
	c := &fakeCompressor{summary: "older context"}
	m := New(c, 4)

	fill(m, 5)

	got := m.Context()
	assert.Contains(t, got, "Previous conversation summary: older context")
	assert.Contains(t, got, "Recent conversation:")
	assert.Contains(t, got, "question 5")
}

func TestContextEmptyWhenNoHistory(t *testing.T) {
	m := New(&fakeCompressor{}, 4)
	assert.Empty(t, m.Context())
}

func TestContextCapsRecentTurns(t *testing.T) {
	m := New(nil, 10)
	fill(m, 6)

	got := m.Context()
	assert.NotContains(t, got, "question 3")
	assert.Contains(t, got, "question 4")
	assert.Contains(t, got, "question 6")
}
