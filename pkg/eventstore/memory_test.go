package eventstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
)

func TestMemoryStore_Append(t *testing.T) {
	t.Parallel()

	t.Run("assigns increasing offsets", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		first, err := store.Append(ctx, "c1", "event", eventstore.Payload{"n": 1})
		require.NoError(t, err)
		second, err := store.Append(ctx, "c1", "event", eventstore.Payload{"n": 2})
		require.NoError(t, err)

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
		assert.Equal(t, "c1", first.ChannelID)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("empty type defaults", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		event, err := store.Append(context.Background(), "c1", "", nil)
		require.NoError(t, err)
		assert.Equal(t, eventstore.DefaultType, event.Type)
	})

	t.Run("empty channel rejected", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		_, err := store.Append(context.Background(), "", "event", nil)
		assert.ErrorIs(t, err, eventstore.ErrEmptyChannelID)
	})

	t.Run("offsets shared across channels", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		a, err := store.Append(ctx, "a", "event", nil)
		require.NoError(t, err)
		b, err := store.Append(ctx, "b", "event", nil)
		require.NoError(t, err)

		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("returned event is a copy", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		event, err := store.Append(ctx, "c1", "event", eventstore.Payload{"n": 1})
		require.NoError(t, err)
		event.Payload["n"] = 99

		stored, err := store.Updates(ctx, "c1", 0, 10)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, 1, stored[0].Payload["n"])
	})
}

func TestMemoryStore_Updates(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) (*eventstore.MemoryStore, []eventstore.Event) {
		t.Helper()
		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		var events []eventstore.Event
		for i := 1; i <= 3; i++ {
			event, err := store.Append(ctx, "c1", "event", eventstore.Payload{"n": i})
			require.NoError(t, err)
			events = append(events, event)
		}
		return store, events
	}

	t.Run("returns all in insertion order", func(t *testing.T) {
		t.Parallel()

		store, seeded := seed(t)
		events, err := store.Updates(context.Background(), "c1", 0, 100)
		require.NoError(t, err)
		require.Len(t, events, 3)
		for i, event := range events {
			assert.Equal(t, seeded[i].ID, event.ID)
		}
	})

	t.Run("resumes after offset", func(t *testing.T) {
		t.Parallel()

		store, seeded := seed(t)
		events, err := store.Updates(context.Background(), "c1", seeded[1].ID, 100)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, seeded[2].ID, events[0].ID)
	})

	t.Run("offset beyond log is empty not error", func(t *testing.T) {
		t.Parallel()

		store, seeded := seed(t)
		events, err := store.Updates(context.Background(), "c1", seeded[2].ID+1000, 100)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		store, _ := seed(t)
		events, err := store.Updates(context.Background(), "c1", 0, 2)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("type filter is a pure subset", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		_, err := store.Append(ctx, "c1", "event", eventstore.Payload{"n": 1})
		require.NoError(t, err)
		presence, err := store.Append(ctx, "c1", "presence", eventstore.Payload{"n": 2})
		require.NoError(t, err)
		_, err = store.Append(ctx, "c1", "event", eventstore.Payload{"n": 3})
		require.NoError(t, err)

		all, err := store.Updates(ctx, "c1", 0, 100)
		require.NoError(t, err)
		require.Len(t, all, 3)

		filtered, err := store.Updates(ctx, "c1", 0, 100, "presence")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, presence.ID, filtered[0].ID)
	})

	t.Run("channels are independent", func(t *testing.T) {
		t.Parallel()

		store, _ := seed(t)
		events, err := store.Updates(context.Background(), "other", 0, 100)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestMemoryStore_LastOffset(t *testing.T) {
	t.Parallel()

	t.Run("zero for empty channel", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		offset, err := store.LastOffset(context.Background(), "c1")
		require.NoError(t, err)
		assert.Zero(t, offset)
	})

	t.Run("tracks max id", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		var last eventstore.Event
		for i := range 3 {
			var err error
			last, err = store.Append(ctx, "c1", "event", eventstore.Payload{"n": i})
			require.NoError(t, err)
		}

		offset, err := store.LastOffset(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, last.ID, offset)
	})

	t.Run("type scoped offset", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		presence, err := store.Append(ctx, "c1", "presence", nil)
		require.NoError(t, err)
		_, err = store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)

		offset, err := store.LastOffset(ctx, "c1", "presence")
		require.NoError(t, err)
		assert.Equal(t, presence.ID, offset)
	})
}

func TestMemoryStore_LastEvents(t *testing.T) {
	t.Parallel()

	t.Run("most recent in ascending order", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		var ids []int64
		for i := range 5 {
			event, err := store.Append(ctx, "c1", "event", eventstore.Payload{"n": i})
			require.NoError(t, err)
			ids = append(ids, event.ID)
		}

		events, err := store.LastEvents(ctx, "c1", 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, ids[3], events[0].ID)
		assert.Equal(t, ids[4], events[1].ID)
	})

	t.Run("count larger than log", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		_, err := store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)

		events, err := store.LastEvents(ctx, "c1", 10)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	t.Run("offsets survive deletion", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		first, err := store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)

		deleted, err := store.Delete(ctx, eventstore.Filter{ChannelID: "c1"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		next, err := store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)
		assert.Greater(t, next.ID, first.ID)
	})

	t.Run("filters compose with AND", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		_, err := store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)
		_, err = store.Append(ctx, "c1", "presence", nil)
		require.NoError(t, err)
		_, err = store.Append(ctx, "c2", "event", nil)
		require.NoError(t, err)

		deleted, err := store.Delete(ctx, eventstore.Filter{
			ChannelID: "c1",
			Types:     []string{"event"},
			OlderThan: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		remaining, err := store.Updates(ctx, "c1", 0, 100)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "presence", remaining[0].Type)

		other, err := store.Updates(ctx, "c2", 0, 100)
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})

	t.Run("age filter keeps newer rows", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		_, err := store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)

		deleted, err := store.Delete(ctx, eventstore.Filter{OlderThan: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("zero filter wipes everything", func(t *testing.T) {
		t.Parallel()

		store := eventstore.NewMemoryStore()
		ctx := context.Background()

		_, err := store.Append(ctx, "c1", "event", nil)
		require.NoError(t, err)
		_, err = store.Append(ctx, "c2", "event", nil)
		require.NoError(t, err)

		deleted, err := store.Delete(ctx, eventstore.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, deleted)
	})
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	store := eventstore.NewMemoryStore()
	ctx := context.Background()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				_, err := store.Append(ctx, "c1", "event", eventstore.Payload{"w": w, "i": i})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	events, err := store.Updates(ctx, "c1", 0, writers*perWriter)
	require.NoError(t, err)
	require.Len(t, events, writers*perWriter)

	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].ID, events[i-1].ID)
	}

	offset, err := store.LastOffset(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, events[len(events)-1].ID, offset)
}
