package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbclient/internal/eventbus"
)

func TestSplitBatch(t *testing.T) {
	text := "{\"a\":1}\n---\n\n  \n---\n{\n  \"b\": 2\n}\n  ---  \nlast"
	assert.Equal(t, []string{"{\"a\":1}", "{\n  \"b\": 2\n}", "last"}, SplitBatch(text))
	assert.Empty(t, SplitBatch("\n---\n"))
	assert.Equal(t, []string{"single"}, SplitBatch("single\n"))
}

func TestExecuteAllKeepsInputOrder(t *testing.T) {
	ft := newFakeTransport()
	ft.replies["q1"] = "r1"
	ft.replies["q2"] = "r2"
	ft.replies["q3"] = "r3"
	gate := ft.hold("q1")

	bus := eventbus.New()
	defer bus.Close()
	svc := NewService(context.Background(), bus, ft, time.Second)

	go func() {
		assert.Eventually(t, func() bool { return len(ft.Calls()) >= 2 }, time.Second, 5*time.Millisecond)
		close(gate)
	}()

	results, err := svc.ExecuteAll(context.Background(), []string{"q1", "q2", "missing", "q3"}, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "r1", results[0].Body)
	assert.Equal(t, "r2", results[1].Body)
	assert.Error(t, results[2].Err)
	assert.Equal(t, "missing", results[2].Query)
	assert.Equal(t, "r3", results[3].Body)
	assert.NoError(t, results[3].Err)
}

func TestExecuteAllCancelled(t *testing.T) {
	ft := newFakeTransport()
	ft.replies["q"] = "r"
	ft.hold("q")

	bus := eventbus.New()
	defer bus.Close()
	svc := NewService(context.Background(), bus, ft, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results, err := svc.ExecuteAll(ctx, []string{"q"}, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
}
