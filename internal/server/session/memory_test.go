package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDestroy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	u := &User{ID: 1, Name: "Alice", Email: "a@b.com", City: "Austin", State: "TX"}
	require.NoError(t, s.Set(ctx, "sid-1", u, time.Hour))

	got, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, *u, *got)

	// snapshot, not a reference
	u.Name = "changed"
	got2, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got2.Name)

	require.NoError(t, s.Destroy(ctx, "sid-1"))
	_, err = s.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "sid-exp", &User{ID: 2}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get(ctx, "sid-exp")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryStore_FlashesAreOneShot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetFlash(ctx, "sid-2", Flash{Kind: FlashSuccess, Message: "Listing created successfully"}))
	require.NoError(t, s.SetFlash(ctx, "sid-2", Flash{Kind: FlashError, Message: "nope"}))

	flashes, err := s.PopFlashes(ctx, "sid-2")
	require.NoError(t, err)
	require.Len(t, flashes, 2)
	assert.Equal(t, FlashSuccess, flashes[0].Kind)
	assert.Equal(t, "Listing created successfully", flashes[0].Message)

	again, err := s.PopFlashes(ctx, "sid-2")
	require.NoError(t, err)
	assert.Empty(t, again)
}
