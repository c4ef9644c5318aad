package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectiq/leadscout/internal/application/services"
	"github.com/prospectiq/leadscout/internal/domain/entities"
)

func TestDecisionMakerService_Rank(t *testing.T) {
	service := services.NewDecisionMakerService()

	t.Run("orders by title authority", func(t *testing.T) {
		ranked := service.Rank([]entities.Executive{
			{Name: "Dana", Title: "Director of Marketing"},
			{Name: "Val", Title: "VP of Engineering"},
			{Name: "Casey", Title: "CEO"},
		})

		require.Len(t, ranked, 3)
		assert.Equal(t, "Casey", ranked[0].Name)
		assert.Equal(t, "Val", ranked[1].Name)
		assert.Equal(t, "Dana", ranked[2].Name)

		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 2, ranked[1].Rank)
		assert.Equal(t, 3, ranked[2].Rank)

		assert.True(t, ranked[0].IsPrimary)
		assert.False(t, ranked[1].IsPrimary)
		assert.False(t, ranked[2].IsPrimary)
	})

	t.Run("is deterministic for equal titles", func(t *testing.T) {
		input := []entities.Executive{
			{Name: "A", Title: "Manager"},
			{Name: "B", Title: "Manager"},
			{Name: "C", Title: "Manager"},
		}
		first := service.Rank(input)
		second := service.Rank(input)

		for i := range first {
			assert.Equal(t, first[i].Name, second[i].Name)
		}
		// stable sort keeps the input order on ties
		assert.Equal(t, "A", first[0].Name)
		assert.Equal(t, "C", first[2].Name)
	})

	t.Run("scores founders and chief executives equally", func(t *testing.T) {
		ranked := service.Rank([]entities.Executive{
			{Name: "A", Title: "Founder"},
			{Name: "B", Title: "Chief Executive Officer"},
		})
		assert.Equal(t, ranked[0].Score, ranked[1].Score)
	})

	t.Run("matches title keywords on word boundaries", func(t *testing.T) {
		// "vp" must not match inside an unrelated word
		ranked := service.Rank([]entities.Executive{
			{Name: "A", Title: "Developer"},
			{Name: "B", Title: "VP, Sales"},
		})
		assert.Equal(t, "B", ranked[0].Name)
		assert.Greater(t, ranked[0].Score, ranked[1].Score)
	})

	t.Run("unknown titles get the default score", func(t *testing.T) {
		ranked := service.Rank([]entities.Executive{
			{Name: "A", Title: "Wizard of Light Bulb Moments"},
		})
		require.Len(t, ranked, 1)
		assert.Equal(t, 30, ranked[0].Score)
		assert.True(t, ranked[0].IsPrimary)
	})

	t.Run("empty input returns nil", func(t *testing.T) {
		assert.Nil(t, service.Rank(nil))
		assert.Nil(t, service.Rank([]entities.Executive{}))
	})
}
