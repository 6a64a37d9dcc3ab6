package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

func testState() *domain.CampaignState {
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, &domain.Campaign{
		ID:            "c_100_20260824",
		Status:        domain.CampaignActive,
		CreatedOn:     "2026-08-24",
		StartConcurso: 100,
		TargetStart:   101,
		WindowLength:  3,
		WinThreshold:  14,
		Selection: &domain.Selection{
			StrategyID:   "FIXED",
			BaseConcurso: 100,
			Games:        map[string][]int{"S16": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		},
		Checks: []*domain.Check{},
	})
	return state
}

func TestStateRepository_LoadFreshDefault(t *testing.T) {
	repo := NewStateRepository()

	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StateVersion, state.Version)
	require.Empty(t, state.Campaigns)
}

func TestStateRepository_SaveAndLoad(t *testing.T) {
	stamp := time.Date(2026, 8, 24, 5, 0, 0, 0, time.UTC)
	repo := NewStateRepository().WithClock(func() time.Time { return stamp })
	ctx := context.Background()

	state := testState()
	require.NoError(t, repo.Save(ctx, state))
	require.Equal(t, stamp, state.UpdatedAt)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Campaigns, 1)
	require.Equal(t, "c_100_20260824", loaded.Campaigns[0].ID)
	require.Equal(t, stamp, loaded.UpdatedAt)
}

func TestStateRepository_SaveNil(t *testing.T) {
	repo := NewStateRepository()
	require.ErrorIs(t, repo.Save(context.Background(), nil), storage.ErrInvalidInput)
}

func TestStateRepository_Isolation(t *testing.T) {
	repo := NewStateRepository()
	ctx := context.Background()

	state := testState()
	require.NoError(t, repo.Save(ctx, state))

	// Mutations after Save must not leak into the repository.
	state.Campaigns[0].Status = domain.CampaignWon

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.CampaignActive, loaded.Campaigns[0].Status)

	// Mutations of a loaded copy must not leak either.
	loaded.Campaigns[0].WinThreshold = 11
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 14, again.Campaigns[0].WinThreshold)
}
