package catalog

import "github.com/minjae-ko/loopline/internal/core/domain"

// stations is the full station roster, loaded once at process start.
var stations = []domain.Station{
	{ID: "central-sq", Name: "Central Square"},
	{ID: "city-hall", Name: "City Hall"},
	{ID: "old-market", Name: "Old Market"},
	{ID: "museum", Name: "Museum of History"},
	{ID: "grand-park", Name: "Grand Park"},
	{ID: "riverside", Name: "Riverside"},
	{ID: "harbor", Name: "Harbor"},
	{ID: "lighthouse", Name: "Lighthouse Point"},
	{ID: "east-terminal", Name: "East Terminal"},
	{ID: "north-hills", Name: "North Hills"},
	{ID: "sunset-ridge", Name: "Sunset Ridge"},
	{ID: "tech-valley", Name: "Tech Valley"},
	{ID: "university", Name: "University Gate"},
	{ID: "windmill", Name: "Windmill Hill"},
	{ID: "hot-springs", Name: "Hot Springs"},
	{ID: "observatory", Name: "Observatory"},
}

var stationByID = func() map[string]domain.Station {
	m := make(map[string]domain.Station, len(stations))
	for _, s := range stations {
		m[s.ID] = s
	}
	return m
}()

// Stations returns the station roster.
func Stations() []domain.Station {
	return stations
}

// StationByID looks up a station.
func StationByID(id string) (domain.Station, bool) {
	s, ok := stationByID[id]
	return s, ok
}
