package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToListItem(t *testing.T) {
	event := Event{
		ID:          7,
		Title:       "Джаз в парке",
		Category:    "Культура",
		Date:        time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Time:        19*time.Hour + 30*time.Minute,
		Location:    "Парк Динамо",
		Price:       "Бесплатно",
		ImageURL:    "https://example.org/jazz.jpg",
		Description: "Живая музыка",
		Lat:         48.4802,
		Lng:         135.0719,
	}

	item := ToListItem(event)

	require.Equal(t, int64(7), item.ID)
	require.Equal(t, "05 Oct", item.Date)
	require.Equal(t, "19:30", item.Time)
	require.Equal(t, "https://example.org/jazz.jpg", item.Image)
	require.Equal(t, "Бесплатно", item.Price)
	require.False(t, item.IsFavorite)
}

func TestListItemJSONShape(t *testing.T) {
	item := ToListItem(Event{ID: 1, Title: "Ярмарка", Lat: 48, Lng: 135, Price: nil, Time: -1})

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"id", "title", "category", "date", "time", "location", "price", "image", "description", "lat", "lng", "isFavorite"} {
		require.Contains(t, decoded, key)
	}
	require.Len(t, decoded, 12)
	require.Equal(t, false, decoded["isFavorite"])
	require.IsType(t, float64(0), decoded["lat"])
	require.IsType(t, float64(0), decoded["lng"])
	require.Nil(t, decoded["price"])
	require.Equal(t, "", decoded["time"])
}

func TestToListItemsEmpty(t *testing.T) {
	items := ToListItems(nil)
	require.NotNil(t, items)
	require.Len(t, items, 0)

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "", FormatDate(time.Time{}))
	require.Equal(t, "31 Dec", FormatDate(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "01 Jan", FormatDate(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "00:00"},
		{9*time.Hour + 5*time.Minute, "09:05"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23:59"},
		{24 * time.Hour, "24:00"},
		{-1, ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatTime(tt.offset))
	}
}
