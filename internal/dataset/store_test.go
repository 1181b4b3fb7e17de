package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"palantir/internal/domain"
	apperrors "palantir/internal/errors"
)

type mockLoader struct {
	LoadFunc func(ctx context.Context) (*Frames, error)
	calls    int
}

func (m *mockLoader) Load(ctx context.Context) (*Frames, error) {
	m.calls++
	return m.LoadFunc(ctx)
}

func testFrames() *Frames {
	return &Frames{
		SnapshotID: uuid.New(),
		LoadedAt:   time.Now(),
		Source:     "csv",
		Orders:     []domain.Order{{ID: "o1"}},
		Items:      []domain.OrderItem{{OrderID: "o1", ProductID: "p1"}},
		Products:   []domain.Product{{ID: "p1"}},
		Warnings:   []string{"orders: column \"customer_state\" missing"},
	}
}

func TestStore_Frames_LoadsLazily(t *testing.T) {
	loader := &mockLoader{LoadFunc: func(ctx context.Context) (*Frames, error) {
		return testFrames(), nil
	}}
	store := NewStore(loader, 0, zap.NewNop())

	f, err := store.Frames(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, f)
	assert.Equal(t, 1, loader.calls)

	// Second call reuses the snapshot.
	_, err = store.Frames(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, loader.calls)
}

func TestStore_Frames_ReloadsAfterTTL(t *testing.T) {
	loader := &mockLoader{LoadFunc: func(ctx context.Context) (*Frames, error) {
		f := testFrames()
		f.LoadedAt = time.Now().Add(-2 * time.Hour)
		return f, nil
	}}
	store := NewStore(loader, time.Hour, zap.NewNop())

	_, err := store.Frames(context.Background())
	assert.NoError(t, err)
	_, err = store.Frames(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestStore_Refresh_ForcesReload(t *testing.T) {
	loader := &mockLoader{LoadFunc: func(ctx context.Context) (*Frames, error) {
		return testFrames(), nil
	}}
	store := NewStore(loader, 0, zap.NewNop())

	first, err := store.Frames(context.Background())
	assert.NoError(t, err)

	second, err := store.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
	assert.NotEqual(t, first.SnapshotID, second.SnapshotID)
}

func TestStore_Frames_InitialLoadFailure(t *testing.T) {
	loader := &mockLoader{LoadFunc: func(ctx context.Context) (*Frames, error) {
		return nil, errors.New("boom")
	}}
	store := NewStore(loader, 0, zap.NewNop())

	f, err := store.Frames(context.Background())
	assert.Nil(t, f)
	assert.Error(t, err)

	due, ok := apperrors.IsDataUnavailableError(err)
	assert.True(t, ok)
	assert.NotNil(t, due)
}

func TestStore_Refresh_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	fail := false
	loader := &mockLoader{LoadFunc: func(ctx context.Context) (*Frames, error) {
		if fail {
			return nil, errors.New("network down")
		}
		return testFrames(), nil
	}}
	store := NewStore(loader, 0, zap.NewNop())

	first, err := store.Frames(context.Background())
	assert.NoError(t, err)

	fail = true
	second, err := store.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first.SnapshotID, second.SnapshotID)
}

func TestStore_Status(t *testing.T) {
	loader := &mockLoader{LoadFunc: func(ctx context.Context) (*Frames, error) {
		return testFrames(), nil
	}}
	store := NewStore(loader, time.Hour, zap.NewNop())

	st := store.Status()
	assert.False(t, st.Loaded)
	assert.Equal(t, time.Hour, st.TTL)

	_, err := store.Frames(context.Background())
	assert.NoError(t, err)

	st = store.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, "csv", st.Source)
	assert.Equal(t, 1, st.Orders)
	assert.Equal(t, 1, st.Items)
	assert.Equal(t, 1, st.Products)
	assert.Len(t, st.Warnings, 1)
}

func TestFrames_Empty(t *testing.T) {
	var f *Frames
	assert.True(t, f.Empty())
	assert.True(t, (&Frames{}).Empty())
	assert.False(t, testFrames().Empty())
}
