package events

import (
	"fmt"
	"time"
)

const dateLayout = "02 Jan"

// ListItem is the JSON shape served to the map client.
type ListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Location    string  `json:"location"`
	Price       any     `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	IsFavorite  bool    `json:"isFavorite"`
}

// ToListItem shapes an event for output. Favorites are not persisted, so
// IsFavorite is always false.
func ToListItem(e Event) ListItem {
	return ListItem{
		ID:          e.ID,
		Title:       e.Title,
		Category:    e.Category,
		Date:        FormatDate(e.Date),
		Time:        FormatTime(e.Time),
		Location:    e.Location,
		Price:       e.Price,
		Image:       e.ImageURL,
		Description: e.Description,
		Lat:         e.Lat,
		Lng:         e.Lng,
		IsFavorite:  false,
	}
}

func ToListItems(list []Event) []ListItem {
	items := make([]ListItem, 0, len(list))
	for _, e := range list {
		items = append(items, ToListItem(e))
	}
	return items
}

// FormatDate renders a calendar date as "DD Mon", e.g. "05 Oct".
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// FormatTime renders a time-of-day offset as 24-hour "HH:MM". Postgres
// allows 24:00:00, which renders as "24:00" rather than wrapping.
func FormatTime(offset time.Duration) string {
	if offset < 0 {
		return ""
	}
	hours := offset / time.Hour
	minutes := (offset % time.Hour) / time.Minute
	return fmt.Sprintf("%02d:%02d", int(hours), int(minutes))
}
