package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cadence/internal/engine"
)

func TestMemory_ScheduleAndList(t *testing.T) {
	reg := NewMemory()
	ctx := context.Background()

	at := time.Date(2026, 6, 22, 9, 0, 0, 0, time.UTC)
	id1, err := reg.Schedule(ctx, engine.NotificationRequest{ContactID: "c1", Title: "t", Body: "b", TriggerAt: at.Add(time.Hour)})
	require.NoError(t, err)
	id2, err := reg.Schedule(ctx, engine.NotificationRequest{ContactID: "c2", Title: "t", Body: "b", TriggerAt: at})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	pending, err := reg.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, id2, pending[0].ID, "sorted by trigger time")
	assert.Equal(t, id1, pending[1].ID)
}

func TestMemory_Cancel(t *testing.T) {
	reg := NewMemory()
	ctx := context.Background()

	id, err := reg.Schedule(ctx, engine.NotificationRequest{ContactID: "c1", TriggerAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, reg.Cancel(ctx, id))
	require.NoError(t, reg.Cancel(ctx, "ghost"), "unknown id is a no-op")

	pending, err := reg.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMemory_ForContact(t *testing.T) {
	reg := NewMemory()
	ctx := context.Background()

	_, err := reg.Schedule(ctx, engine.NotificationRequest{ContactID: "c1", TriggerAt: time.Now()})
	require.NoError(t, err)
	_, err = reg.Schedule(ctx, engine.NotificationRequest{ContactID: "c2", TriggerAt: time.Now()})
	require.NoError(t, err)
	_, err = reg.Schedule(ctx, engine.NotificationRequest{ContactID: "c1", TriggerAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	mine, err := reg.ForContact(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestMemory_CancelledContext(t *testing.T) {
	reg := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.ListScheduled(ctx)
	assert.Error(t, err)
}

func TestMemory_Permitted(t *testing.T) {
	reg := NewMemory()
	assert.True(t, reg.Permitted())

	reg.SetPermitted(false)
	assert.False(t, reg.Permitted())
}
