package repository

import (
	"context"
	"testing"

	"farm-assist-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedContent(t *testing.T, repo ContentRepository) {
	t.Helper()
	err := repo.Seed(context.Background(),
		[]model.WaterTip{{Title: "Drip irrigation", Content: "Use drip lines to save water."}},
		[]model.PaddyInfo{
			{Title: "Soil Preparation for Paddy", Content: "Plow and level the field.", Category: "Soil Preparation"},
			{Title: "Paddy Harvesting", Content: "Harvest at 80-85% golden grains.", Category: "Harvesting"},
		},
		[]model.FarmingTip{{Title: "Crop rotation", Content: "Rotate crops to keep soil healthy.", Category: "Soil"}},
	)
	require.NoError(t, err)
}

func TestContentRepositorySeedIsIdempotent(t *testing.T) {
	repo := NewContentRepository(newTestDB(t))
	seedContent(t, repo)
	seedContent(t, repo)

	ctx := context.Background()
	water, err := repo.ListWaterTips(ctx)
	require.NoError(t, err)
	assert.Len(t, water, 1)

	paddy, err := repo.ListPaddyInfo(ctx, "")
	require.NoError(t, err)
	assert.Len(t, paddy, 2)

	harvest, err := repo.ListPaddyInfo(ctx, "Harvesting")
	require.NoError(t, err)
	require.Len(t, harvest, 1)
	assert.Equal(t, "Paddy Harvesting", harvest[0].Title)

	farming, err := repo.ListFarmingTips(ctx)
	require.NoError(t, err)
	assert.Len(t, farming, 1)
}

func TestContentRepositoryGet(t *testing.T) {
	repo := NewContentRepository(newTestDB(t))
	seedContent(t, repo)
	ctx := context.Background()

	tip, err := repo.GetWaterTip(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Drip irrigation", tip.Title)

	_, err = repo.GetWaterTip(ctx, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	info, err := repo.GetPaddyInfo(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Harvesting", info.Category)
}

func TestContentRepositorySearch(t *testing.T) {
	repo := NewContentRepository(newTestDB(t))
	seedContent(t, repo)

	results, err := repo.Search(context.Background(), "SOIL", 10)
	require.NoError(t, err)
	kinds := map[string]bool{}
	for _, r := range results {
		kinds[r.Kind] = true
	}
	assert.True(t, kinds[model.ContentKindPaddyInfo])
	assert.True(t, kinds[model.ContentKindFarmingTip])
	assert.False(t, kinds[model.ContentKindWaterTip])

	limited, err := repo.Search(context.Background(), "a", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
