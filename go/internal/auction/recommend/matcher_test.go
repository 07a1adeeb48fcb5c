package recommend

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

type fakeRooms map[uuid.UUID]models.Room

func (f fakeRooms) Get(id uuid.UUID) (models.Room, error) {
	r, ok := f[id]
	if !ok {
		return models.Room{}, apperr.ErrNotFound
	}
	return r, nil
}

type fakeEntries map[uuid.UUID]models.LedgerEntry

func (f fakeEntries) Entry(_, bidderID uuid.UUID) (models.LedgerEntry, error) {
	e, ok := f[bidderID]
	if !ok {
		return models.LedgerEntry{}, apperr.ErrNotFound
	}
	return e, nil
}

type fakeItems map[uuid.UUID]models.Item

func (f fakeItems) ItemsByID(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	out := make(map[uuid.UUID]models.Item, len(ids))
	for _, id := range ids {
		if it, ok := f[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func item(cat models.Category, score float64) models.Item {
	return models.Item{ID: uuid.New(), Name: string(cat), Category: cat, PerformanceScore: score}
}

func TestRank(t *testing.T) {
	bat1 := item(models.CategoryBatsman, 70)
	bowl := item(models.CategoryBowler, 95)
	bat2 := item(models.CategoryBatsman, 88)
	keeper := item(models.CategoryWicketKeeper, 70)
	bat3 := item(models.CategoryBatsman, 70)
	items := []models.Item{bat1, bowl, bat2, keeper, bat3}

	tests := []struct {
		name  string
		prefs []models.Category
		want  []uuid.UUID
	}{
		{
			name:  "preferred_first_then_score_then_queue_order",
			prefs: []models.Category{models.CategoryBatsman},
			want:  []uuid.UUID{bat2.ID, bat1.ID, bat3.ID, bowl.ID, keeper.ID},
		},
		{
			name:  "no_preferences_is_score_order",
			prefs: nil,
			want:  []uuid.UUID{bowl.ID, bat2.ID, bat1.ID, keeper.ID, bat3.ID},
		},
		{
			name:  "several_preferences",
			prefs: []models.Category{models.CategoryWicketKeeper, models.CategoryBowler},
			want:  []uuid.UUID{bowl.ID, keeper.ID, bat2.ID, bat1.ID, bat3.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(items, tt.prefs))
		})
	}
}

func TestRecommend(t *testing.T) {
	a := item(models.CategoryBowler, 10)
	b := item(models.CategoryBatsman, 50)
	c := item(models.CategoryBowler, 30)
	d := item(models.CategoryAllRounder, 99)
	catalogue := fakeItems{a.ID: a, b.ID: b, c.ID: c, d.ID: d}

	bidder := uuid.New()
	entries := fakeEntries{bidder: {BidderID: bidder, Preferences: []models.Category{models.CategoryBowler}}}

	roomID := uuid.New()
	base := models.Room{ID: roomID, ItemIDs: []uuid.UUID{a.ID, b.ID, c.ID, d.ID}}

	tests := []struct {
		name   string
		mutate func(r *models.Room)
		want   []uuid.UUID
	}{
		{
			name:   "waiting_room_ranks_everything",
			mutate: func(r *models.Room) { r.Status = models.RoomStatusWaiting },
			want:   []uuid.UUID{c.ID, a.ID, d.ID, b.ID},
		},
		{
			name: "passed_items_are_excluded",
			mutate: func(r *models.Room) {
				r.Status = models.RoomStatusActive
				r.Cursor = models.CursorAt(1)
			},
			want: []uuid.UUID{c.ID, d.ID, b.ID},
		},
		{
			name: "completed_room_has_nothing",
			mutate: func(r *models.Room) {
				r.Status = models.RoomStatusCompleted
				r.Cursor = models.CursorAt(4)
			},
			want: []uuid.UUID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base.Clone()
			tt.mutate(&r)
			m := NewMatcher(fakeRooms{roomID: r}, entries, catalogue)

			got, err := m.Recommend(context.Background(), bidder, roomID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	m := NewMatcher(fakeRooms{roomID: base}, entries, catalogue)
	_, err := m.Recommend(context.Background(), uuid.New(), roomID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
