package audit

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrail_RecordAndHistory(t *testing.T) {
	trail, err := NewTrail(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, trail.Record(ctx, Entry{
		RequestID: 1, Event: "issueQuote", FromStatus: "Capturado", ToStatus: "Cotizado", Actor: "maria",
	}))
	require.NoError(t, trail.Record(ctx, Entry{
		RequestID: 2, Event: "cancel", FromStatus: "Capturado", ToStatus: "Cancelado", Actor: "luis",
	}))
	require.NoError(t, trail.Record(ctx, Entry{
		RequestID: 1, Event: "deliver", FromStatus: "En proceso", ToStatus: "Entregado", Actor: "maria",
	}))

	entries, err := trail.History(1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "deliver", entries[0].Event, "newest first")
	assert.Equal(t, "issueQuote", entries[1].Event)
	assert.False(t, entries[0].At.IsZero(), "missing timestamp defaults to now")
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	assert.Equal(t, 3, trail.Len())
}

func TestTrail_HistoryLimit(t *testing.T) {
	trail, err := NewTrail(10)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, trail.Record(ctx, Entry{RequestID: 1, Event: "acknowledge"}))
	}

	entries, err := trail.History(1, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTrail_EvictsOldest(t *testing.T) {
	trail, err := NewTrail(3)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, trail.Record(ctx, Entry{RequestID: i, Event: "cancel"}))
	}

	assert.Equal(t, 3, trail.Len())

	// The two oldest entries were evicted.
	for _, gone := range []int{1, 2} {
		entries, err := trail.History(gone, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
	entries, err := trail.History(5, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTrail_SnapshotRoundTrip(t *testing.T) {
	trail, err := NewTrail(10)
	require.NoError(t, err)
	ctx := context.Background()

	type snapshot struct {
		Client   string `json:"client"`
		Comments string `json:"comments"`
	}

	t.Run("small snapshot stored as-is", func(t *testing.T) {
		payload := snapshot{Client: "Aceros Gomez", Comments: "ok"}
		require.NoError(t, trail.Record(ctx, Entry{RequestID: 1, Event: "issueQuote", Payload: payload}))

		entries, err := trail.History(1, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		var got snapshot
		require.NoError(t, json.Unmarshal(entries[0].Snapshot, &got))
		assert.Equal(t, payload, got)
	})

	t.Run("large snapshot compressed and restored", func(t *testing.T) {
		payload := snapshot{Client: "Aceros Gomez", Comments: strings.Repeat("historial de servicio ", 400)}
		require.NoError(t, trail.Record(ctx, Entry{RequestID: 2, Event: "deliver", Payload: payload}))

		entries, err := trail.History(2, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		var got snapshot
		require.NoError(t, json.Unmarshal(entries[0].Snapshot, &got))
		assert.Equal(t, payload, got)
	})
}
