package model

import "time"

// Preferences are the user-tunable display settings. FavoriteUnits maps a
// category name to its unit codes in display order.
type Preferences struct {
	DecimalPlaces      int                 `json:"decimalPlaces" yaml:"decimal_places"`
	ShowAllConversions bool                `json:"showAllConversions" yaml:"show_all_conversions"`
	TopConversions     int                 `json:"topConversions" yaml:"top_conversions"`
	Theme              string              `json:"theme" yaml:"theme"`
	FavoriteUnits      map[string][]string `json:"favoriteUnits" yaml:"favorite_units"`
}

type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Input     string    `json:"input" yaml:"input"`
	Value     float64   `json:"value" yaml:"value"`
	UnitCode  string    `json:"unitCode" yaml:"unit_code"`
	Category  string    `json:"category" yaml:"category"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}
