package catalog

import "github.com/minjae-ko/loopline/internal/core/domain"

// lines is the line roster in declaration order. Order is observable: the
// pathfinder picks the first line that connects a station pair.
var lines = []domain.Line{
	{
		ID:         "city-loop",
		Name:       "City Loop",
		Type:       domain.LineTypeCity,
		StationIDs: []string{"central-sq", "city-hall", "old-market", "museum", "grand-park", "riverside"},
		Color:      "#2E7D32",
		BaseFare:   1200, ExtraFarePerStop: 100,
		TransferDiscount1st: 0.5, TransferDiscount2nd: 0.3,
		Timetable: domain.Timetable{FirstDeparture: "06:00", LastDeparture: "23:00", IntervalMinutes: 10},
	},
	{
		ID:         "harbor-line",
		Name:       "Harbor Line",
		Type:       domain.LineTypeCity,
		StationIDs: []string{"central-sq", "riverside", "harbor", "lighthouse", "east-terminal"},
		Color:      "#1565C0",
		BaseFare:   1300, ExtraFarePerStop: 100,
		TransferDiscount1st: 0.5, TransferDiscount2nd: 0.25,
		Timetable: domain.Timetable{FirstDeparture: "06:30", LastDeparture: "22:30", IntervalMinutes: 12},
	},
	{
		ID:         "suburb-express",
		Name:       "Suburb Express",
		Type:       domain.LineTypeSuburb,
		StationIDs: []string{"east-terminal", "north-hills", "sunset-ridge", "tech-valley", "university", "grand-park"},
		Color:      "#E65100",
		BaseFare:   1700, ExtraFarePerStop: 150,
		TransferDiscount1st: 0.4, TransferDiscount2nd: 0.2,
		Timetable: domain.Timetable{FirstDeparture: "05:40", LastDeparture: "22:00", IntervalMinutes: 15},
	},
	{
		ID:         "tour-ring",
		Name:       "Tour Ring",
		Type:       domain.LineTypeTour,
		StationIDs: []string{"museum", "windmill", "hot-springs", "observatory", "lighthouse"},
		Color:      "#6A1B9A",
		BaseFare:   2500, ExtraFarePerStop: 200,
		TransferDiscount1st: 0.3, TransferDiscount2nd: 0.15,
		Timetable: domain.Timetable{FirstDeparture: "09:00", LastDeparture: "18:00", IntervalMinutes: 30},
	},
	{
		ID:         "campus-shuttle",
		Name:       "Campus Shuttle",
		Type:       domain.LineTypeSuburb,
		StationIDs: []string{"university", "tech-valley", "city-hall"},
		Color:      "#00838F",
		BaseFare:   900, ExtraFarePerStop: 80,
		TransferDiscount1st: 0.5, TransferDiscount2nd: 0.3,
		Timetable: domain.Timetable{FirstDeparture: "07:00", LastDeparture: "21:00", IntervalMinutes: 8},
	},
}

// lineDirections declares which lines run both ways around their ring.
// Lines absent from this table default to unidirectional.
var lineDirections = map[string]domain.LineDirection{
	"city-loop":      domain.Bidirectional,
	"harbor-line":    domain.Unidirectional,
	"suburb-express": domain.Unidirectional,
	"tour-ring":      domain.Bidirectional,
	"campus-shuttle": domain.Unidirectional,
}

var lineByID = func() map[string]domain.Line {
	m := make(map[string]domain.Line, len(lines))
	for _, l := range lines {
		m[l.ID] = l
	}
	return m
}()

// Lines returns the line roster in declaration order.
func Lines() []domain.Line {
	return lines
}

// LineByID looks up a line.
func LineByID(id string) (domain.Line, bool) {
	l, ok := lineByID[id]
	return l, ok
}

// LineMap returns an id-to-line map for injection into the pricing engine.
func LineMap() map[string]domain.Line {
	return lineByID
}

// Directions returns the per-line running direction table.
func Directions() map[string]domain.LineDirection {
	return lineDirections
}

// DirectionOf returns the declared running direction of a line,
// defaulting to unidirectional for unknown ids.
func DirectionOf(lineID string) domain.LineDirection {
	if d, ok := lineDirections[lineID]; ok {
		return d
	}
	return domain.Unidirectional
}
