package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/reviewbot/internal/config"
	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/pkg/models"
)

func sampleDataset() models.Dataset {
	day := models.NewDate(2024, time.May, 1)
	schedule := func(from models.Date) []models.Date {
		return []models.Date{from.AddDays(1), from.AddDays(3), from.AddDays(7), from.AddDays(14), from.AddDays(30)}
	}

	alice := models.NewUserState()
	alice.Materials = append(alice.Materials,
		models.Material{
			ID:               "a-1",
			Text:             "Photosynthesis",
			ReviewSchedule:   schedule(day),
			CurrentStep:      2,
			CreatedDate:      day,
			LastReviewedDate: day.AddDays(3).Ptr(),
		},
		models.Material{
			ID:               "a-2",
			Text:             "Krebs cycle, with commas",
			ReviewSchedule:   schedule(day.AddDays(-40)),
			CurrentStep:      5,
			Completed:        true,
			CreatedDate:      day.AddDays(-40),
			LastReviewedDate: day.AddDays(-10).Ptr(),
		},
	)
	alice.Stats = models.Stats{
		CompletedCount:  1,
		InProgressCount: 1,
		Streak:          7,
		LastReviewDate:  day.AddDays(3).Ptr(),
		Achievements:    []string{"Determination", "Apprentice"},
	}

	return models.Dataset{
		"1001": alice,
		"2002": models.NewUserState(),
	}
}

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"json": func(t *testing.T) Store {
			return NewJSONStore(filepath.Join(t.TempDir(), "nested", "data.json"), logger.Nop())
		},
		"sqlite3": func(t *testing.T) Store {
			s, err := OpenSQL("sqlite3", filepath.Join(t.TempDir(), "review.db"), logger.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStoreLoadEmpty(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			data, err := open(t).Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, data)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			want := sampleDataset()
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// save(load()) then load again yields the same dataset
			require.NoError(t, s.Save(ctx, got))
			again, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, again)
		})
	}
}

func TestStoreSaveReplacesPreviousContents(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			require.NoError(t, s.Save(ctx, sampleDataset()))

			smaller := models.Dataset{"3003": models.NewUserState()}
			require.NoError(t, s.Save(ctx, smaller))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, smaller, got)
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.DataFile = filepath.Join(t.TempDir(), "data.json")
	s, err := Open(cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)

	cfg.StorageDriver = config.DriverSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "db", "review.db")
	s, err = Open(cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, s)
	require.NoError(t, s.Close())

	cfg.StorageDriver = "mongo"
	_, err = Open(cfg, logger.Nop())
	assert.Error(t, err)
}
