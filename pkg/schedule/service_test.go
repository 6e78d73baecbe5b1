package schedule_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/schedule"
)

type mockStore struct {
	mu        sync.Mutex
	configs   map[uuid.UUID]schedule.Config
	saveCalls int
	getErr    error
	saveErr   error
}

func newMockStore() *mockStore {
	return &mockStore{configs: make(map[uuid.UUID]schedule.Config)}
}

func (m *mockStore) Get(_ context.Context, userID uuid.UUID) (schedule.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return schedule.Config{}, m.getErr
	}
	cfg, ok := m.configs[userID]
	if !ok {
		return schedule.Config{}, schedule.ErrNotFound
	}
	return cfg, nil
}

func (m *mockStore) Create(_ context.Context, cfg schedule.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.configs[cfg.UserID] = cfg
	return nil
}

func (m *mockStore) Save(_ context.Context, cfg schedule.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.configs[cfg.UserID] = cfg
	return nil
}

func fixedClock(t time.Time) schedule.ServiceOption {
	return schedule.WithClock(func() time.Time { return t })
}

func TestNewService(t *testing.T) {
	t.Parallel()

	_, err := schedule.NewService(nil)
	require.ErrorIs(t, err, schedule.ErrStoreNil)

	svc, err := schedule.NewService(newMockStore())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestService_CreateDefault(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMockStore()
	svc, err := schedule.NewService(store, fixedClock(now))
	require.NoError(t, err)

	userID := uuid.New()
	cfg, err := svc.CreateDefault(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Nil(t, cfg.NextDueAt)
	assert.Equal(t, now, cfg.UpdatedAt)

	stored, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, cfg, stored)
}

func TestService_Configure(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("updates existing schedule", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		svc, err := schedule.NewService(store, fixedClock(now))
		require.NoError(t, err)

		existing := schedule.Default(uuid.New())
		existing.AccountEmail = "owner@example.com"
		require.NoError(t, store.Create(context.Background(), existing))

		cfg, err := svc.Configure(context.Background(), existing.UserID, schedule.Input{
			Enabled:   true,
			Frequency: "weekly",
			DayOfWeek: "monday",
			TimeOfDay: "09:00",
			RangeDays: 7,
		})
		require.NoError(t, err)
		require.NotNil(t, cfg.NextDueAt)
		assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), *cfg.NextDueAt)
		assert.Equal(t, 1, store.saveCalls)

		stored, err := svc.Get(context.Background(), existing.UserID)
		require.NoError(t, err)
		assert.Equal(t, cfg, stored)
	})

	t.Run("creates missing schedule", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		svc, err := schedule.NewService(store, fixedClock(now))
		require.NoError(t, err)

		userID := uuid.New()
		cfg, err := svc.Configure(context.Background(), userID, schedule.Input{
			Enabled:   true,
			Frequency: "daily",
			TimeOfDay: "11:00",
			Recipient: "doctor@example.com",
			RangeDays: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, userID, cfg.UserID)
		assert.Equal(t, 0, store.saveCalls)

		stored, err := store.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, stored.Enabled)
	})

	t.Run("validation errors are not persisted", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		svc, err := schedule.NewService(store, fixedClock(now))
		require.NoError(t, err)

		existing := schedule.Default(uuid.New())
		require.NoError(t, store.Create(context.Background(), existing))

		_, err = svc.Configure(context.Background(), existing.UserID, schedule.Input{
			Enabled:   true,
			Frequency: "yearly",
			TimeOfDay: "09:00",
			RangeDays: 30,
		})
		require.ErrorIs(t, err, schedule.ErrInvalidConfig)
		verrs := schedule.ExtractValidationErrors(err)
		assert.True(t, verrs.Has(schedule.FieldFrequency))
		assert.True(t, verrs.Has(schedule.FieldRecipient))
		assert.Equal(t, 0, store.saveCalls)
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection reset")
		store := newMockStore()
		store.getErr = storeErr
		svc, err := schedule.NewService(store, fixedClock(now))
		require.NoError(t, err)

		_, err = svc.Configure(context.Background(), uuid.New(), schedule.Input{RangeDays: 30})
		require.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, schedule.ErrInvalidConfig)
	})

	t.Run("save errors are wrapped", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("disk full")
		store := newMockStore()
		existing := schedule.Default(uuid.New())
		require.NoError(t, store.Create(context.Background(), existing))
		store.saveErr = storeErr

		svc, err := schedule.NewService(store, fixedClock(now))
		require.NoError(t, err)

		_, err = svc.Configure(context.Background(), existing.UserID, schedule.Input{RangeDays: 30})
		require.ErrorIs(t, err, storeErr)
	})
}

func TestService_Disable(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	store := newMockStore()
	svc, err := schedule.NewService(store, fixedClock(now))
	require.NoError(t, err)

	userID := uuid.New()
	_, err = svc.Configure(context.Background(), userID, schedule.Input{
		Enabled:    true,
		Frequency:  "monthly",
		DayOfMonth: 15,
		TimeOfDay:  "18:30",
		Recipient:  "doctor@example.com",
		RangeDays:  90,
	})
	require.NoError(t, err)

	cfg, err := svc.Disable(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Nil(t, cfg.NextDueAt)
	assert.Equal(t, schedule.FrequencyDaily, cfg.Frequency())
	assert.Equal(t, "18:30", cfg.TimeOfDay.String())
	assert.Equal(t, "doctor@example.com", cfg.Recipient)

	_, err = svc.Disable(context.Background(), uuid.New())
	require.ErrorIs(t, err, schedule.ErrNotFound)
}

func TestWithLocation(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	svc, err := schedule.NewService(newMockStore(), schedule.WithLocation(loc))
	require.NoError(t, err)

	cfg, err := svc.Configure(context.Background(), uuid.New(), schedule.Input{
		Enabled:   true,
		Frequency: "daily",
		TimeOfDay: "08:00",
		Recipient: "doctor@example.com",
		RangeDays: 30,
	})
	require.NoError(t, err)
	require.NotNil(t, cfg.NextDueAt)
	assert.Equal(t, loc, cfg.NextDueAt.Location())
	assert.Equal(t, 8, cfg.NextDueAt.Hour())
}
