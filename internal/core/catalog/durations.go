package catalog

// hopDurations maps a directed adjacent station pair to its travel time in
// minutes. Bidirectional lines carry both directions (and may be
// asymmetric); unidirectional lines carry only the direction they run.
var hopDurations = map[[2]string]int{
	// city-loop, forward
	{"central-sq", "city-hall"}:  4,
	{"city-hall", "old-market"}:  6,
	{"old-market", "museum"}:     5,
	{"museum", "grand-park"}:     7,
	{"grand-park", "riverside"}:  6,
	{"riverside", "central-sq"}:  5,
	// city-loop, backward (the park climb is slower downhill-side)
	{"city-hall", "central-sq"}:  5,
	{"old-market", "city-hall"}:  6,
	{"museum", "old-market"}:     5,
	{"grand-park", "museum"}:     8,
	{"riverside", "grand-park"}:  6,
	{"central-sq", "riverside"}:  5,

	// harbor-line (one way only)
	{"riverside", "harbor"}:       8,
	{"harbor", "lighthouse"}:      7,
	{"lighthouse", "east-terminal"}: 9,
	{"east-terminal", "central-sq"}: 12,

	// suburb-express (one way only)
	{"east-terminal", "north-hills"}: 10,
	{"north-hills", "sunset-ridge"}:  8,
	{"sunset-ridge", "tech-valley"}:  9,
	{"tech-valley", "university"}:    6,
	{"university", "grand-park"}:     11,
	{"grand-park", "east-terminal"}:  14,

	// tour-ring, forward
	{"museum", "windmill"}:         12,
	{"windmill", "hot-springs"}:    10,
	{"hot-springs", "observatory"}: 9,
	{"observatory", "lighthouse"}:  11,
	{"lighthouse", "museum"}:       13,
	// tour-ring, backward
	{"windmill", "museum"}:         12,
	{"hot-springs", "windmill"}:    10,
	{"observatory", "hot-springs"}: 9,
	{"lighthouse", "observatory"}:  11,
	{"museum", "lighthouse"}:       13,

	// campus-shuttle (one way only)
	{"university", "tech-valley"}: 6,
	{"tech-valley", "city-hall"}:  9,
	{"city-hall", "university"}:   11,
}

// HopMinutes returns the travel time for a single directed hop.
func HopMinutes(fromID, toID string) (int, bool) {
	d, ok := hopDurations[[2]string{fromID, toID}]
	return d, ok
}

// HopDurations returns the full duration table keyed by directed pair.
func HopDurations() map[[2]string]int {
	return hopDurations
}
