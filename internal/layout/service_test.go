package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/persist"
)

func newTestLayout(t *testing.T) (*Service, *persist.Store) {
	t.Helper()
	store, err := persist.NewStore(t.TempDir(), "layout.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	docs := persist.NewService(store, DocumentKey, domain.DefaultLayoutDocument, nil,
		persist.WithThrottleWindow[domain.LayoutDocument](50*time.Millisecond))
	return NewService(docs, nil), store
}

func TestAddSliderAssignsIDAndOrder(t *testing.T) {
	svc, _ := newTestLayout(t)

	first := svc.AddSlider("home", &domain.Slider{Title: "Continue Watching", Type: "progress", Visible: true})
	second := svc.AddSlider("home", &domain.Slider{Title: "Trending", Type: "discover", Visible: true})

	assert.NotEmpty(t, first.ID)
	assert.NotZero(t, first.CreatedAt)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)

	sliders := svc.GetSliders("home")
	require.Len(t, sliders, 2)
	assert.Equal(t, "Continue Watching", sliders[0].Title)
}

func TestDeleteSliderPersistsImmediately(t *testing.T) {
	svc, store := newTestLayout(t)
	sl := svc.AddSlider("home", &domain.Slider{Title: "Temp"})

	require.True(t, svc.DeleteSlider("home", sl.ID))
	assert.Empty(t, svc.GetSliders("home"))

	// A fresh service must see the deletion durably.
	fresh := NewService(persist.NewService(store, DocumentKey, domain.DefaultLayoutDocument, nil), nil)
	assert.Empty(t, fresh.GetSliders("home"))
}

func TestGetSlider(t *testing.T) {
	svc, _ := newTestLayout(t)
	sl := svc.AddSlider("home", &domain.Slider{Title: "Queue"})

	got, err := svc.GetSlider("home", sl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Queue", got.Title)

	_, err = svc.GetSlider("home", "missing")
	assert.ErrorIs(t, err, domain.ErrSliderNotFound)
}

func TestDeleteUnknownSliderIsNoop(t *testing.T) {
	svc, _ := newTestLayout(t)
	assert.False(t, svc.DeleteSlider("home", "missing"))
}

func TestRenameSliderThrottled(t *testing.T) {
	svc, store := newTestLayout(t)
	sl := svc.AddSlider("home", &domain.Slider{Title: "Old"})

	// AddSlider just wrote immediately; the rename lands in a fresh window
	// only after the throttle window elapses. Rapid renames keep the
	// snapshot current but drop the durable write.
	require.True(t, svc.RenameSlider("home", sl.ID, "Newer"))
	require.True(t, svc.RenameSlider("home", sl.ID, "Newest"))

	assert.Equal(t, "Newest", svc.GetSliders("home")[0].Title, "snapshot always reflects the edit")

	fresh := NewService(persist.NewService(store, DocumentKey, domain.DefaultLayoutDocument, nil), nil)
	assert.Equal(t, "Newer", fresh.GetSliders("home")[0].Title, "second rename inside the window was dropped")
}

func TestSliderItemOperations(t *testing.T) {
	svc, _ := newTestLayout(t)
	sl := svc.AddSlider("home", &domain.Slider{Title: "Queue"})

	require.True(t, svc.AddItemToSlider("home", sl.ID, domain.SliderItem{ContentID: "a", Title: "Dark"}))
	require.True(t, svc.AddItemToSlider("home", sl.ID, domain.SliderItem{ContentID: "b", Title: "1899"}))
	require.True(t, svc.AddItemToSlider("home", sl.ID, domain.SliderItem{ContentID: "c", Title: "Monster"}))

	require.True(t, svc.MoveSliderItem("home", sl.ID, 2, 0))
	items := svc.GetSliders("home")[0].Items
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].ContentID, items[1].ContentID, items[2].ContentID})
	assert.NotZero(t, items[0].AddedDate)

	require.True(t, svc.RemoveItemFromSlider("home", sl.ID, "a"))
	assert.Len(t, svc.GetSliders("home")[0].Items, 2)

	assert.False(t, svc.MoveSliderItem("home", sl.ID, 0, 5), "out-of-range move is a no-op")
	assert.False(t, svc.RemoveItemFromSlider("home", sl.ID, "missing"))
}

func TestReorderSliders(t *testing.T) {
	svc, _ := newTestLayout(t)
	a := svc.AddSlider("home", &domain.Slider{Title: "A"})
	b := svc.AddSlider("home", &domain.Slider{Title: "B"})
	c := svc.AddSlider("home", &domain.Slider{Title: "C"})

	require.True(t, svc.ReorderSliders("home", []string{c.ID, a.ID, b.ID}))

	sliders := svc.GetSliders("home")
	assert.Equal(t, "C", sliders[0].Title)
	assert.Equal(t, "A", sliders[1].Title)
	assert.Equal(t, "B", sliders[2].Title)
}

func TestUpdateSettings(t *testing.T) {
	svc, store := newTestLayout(t)

	svc.UpdateSettings(domain.LayoutSettings{Theme: "dark", ShowProgress: true})

	fresh := NewService(persist.NewService(store, DocumentKey, domain.DefaultLayoutDocument, nil), nil)
	assert.Equal(t, "dark", fresh.Settings().Theme)
}

func TestSlidersByTypeMemoized(t *testing.T) {
	svc, _ := newTestLayout(t)
	a := svc.AddSlider("home", &domain.Slider{Title: "A", Type: "discover"})
	svc.AddSlider("home", &domain.Slider{Title: "B", Type: "progress"})

	assert.Equal(t, []string{a.ID}, svc.SlidersByType("home", "discover"))
	assert.Empty(t, svc.SlidersByType("films", "discover"))
}
