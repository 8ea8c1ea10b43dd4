package network

import (
	"fmt"
	"log/slog"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// defaultHopMinutes is the fallback travel time for a hop missing from the
// duration table. A miss is a catalog authoring gap, so it is logged.
const defaultHopMinutes = 5

// Network holds the static reference tables: stations, ring lines, per-line
// running directions, and directed hop durations. It is built once at
// startup and never mutated, so methods are safe for concurrent use.
type Network struct {
	stations   map[string]domain.Station
	lines      []domain.Line
	lineByID   map[string]domain.Line
	directions map[string]domain.LineDirection
	durations  map[[2]string]int
}

// New builds a Network from reference data. The line slice order is
// preserved: direct-path lookups pick the first matching line.
func New(
	stations []domain.Station,
	lines []domain.Line,
	directions map[string]domain.LineDirection,
	durations map[[2]string]int,
) *Network {
	n := &Network{
		stations:   make(map[string]domain.Station, len(stations)),
		lines:      lines,
		lineByID:   make(map[string]domain.Line, len(lines)),
		directions: directions,
		durations:  durations,
	}
	for _, s := range stations {
		n.stations[s.ID] = s
	}
	for _, l := range lines {
		n.lineByID[l.ID] = l
	}
	return n
}

// Station looks up a station by id.
func (n *Network) Station(id string) (domain.Station, bool) {
	s, ok := n.stations[id]
	return s, ok
}

// Stations returns a copy of the station table keyed by id.
func (n *Network) Stations() map[string]domain.Station {
	out := make(map[string]domain.Station, len(n.stations))
	for id, s := range n.stations {
		out[id] = s
	}
	return out
}

// Lines returns the lines in declaration order.
func (n *Network) Lines() []domain.Line {
	return n.lines
}

// Line looks up a line by id.
func (n *Network) Line(id string) (domain.Line, bool) {
	l, ok := n.lineByID[id]
	return l, ok
}

// LineMap returns the id-to-line table.
func (n *Network) LineMap() map[string]domain.Line {
	return n.lineByID
}

// Direction returns a line's declared running direction, defaulting to
// unidirectional for ids missing from the direction table.
func (n *Network) Direction(lineID string) domain.LineDirection {
	if d, ok := n.directions[lineID]; ok {
		return d
	}
	return domain.Unidirectional
}

// IsBidirectional reports whether vehicles run both ways around the ring.
func (n *Network) IsBidirectional(lineID string) bool {
	return n.Direction(lineID) == domain.Bidirectional
}

// stationIndex returns the position of a station within a line's loop.
func stationIndex(line domain.Line, stationID string) (int, error) {
	for i, id := range line.StationIDs {
		if id == stationID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: station %q on line %q", domain.ErrStationNotOnLine, stationID, line.ID)
}

// StopsCount returns the number of hops between two stations on a line.
// Bidirectional lines take the shorter of the two ring directions;
// unidirectional lines count forward only, wrapping through index 0.
func (n *Network) StopsCount(line domain.Line, fromID, toID string) (int, error) {
	fromIdx, err := stationIndex(line, fromID)
	if err != nil {
		return 0, err
	}
	toIdx, err := stationIndex(line, toID)
	if err != nil {
		return 0, err
	}
	if fromIdx == toIdx {
		return 0, nil
	}

	ring := len(line.StationIDs)
	forward := (toIdx - fromIdx + ring) % ring
	if !n.IsBidirectional(line.ID) {
		return forward, nil
	}
	backward := ring - forward
	if backward < forward {
		return backward, nil
	}
	return forward, nil
}

// FindDirectLine returns the first declared line serving both stations.
// Every line is a closed ring, so containment alone implies reachability.
func (n *Network) FindDirectLine(fromID, toID string) (domain.Line, bool) {
	if fromID == toID {
		return domain.Line{}, false
	}
	for _, line := range n.lines {
		if containsStation(line, fromID) && containsStation(line, toID) {
			return line, true
		}
	}
	return domain.Line{}, false
}

// LinesByStation returns every line serving a station, in declaration order.
func (n *Network) LinesByStation(stationID string) []domain.Line {
	var out []domain.Line
	for _, line := range n.lines {
		if containsStation(line, stationID) {
			out = append(out, line)
		}
	}
	return out
}

func containsStation(line domain.Line, stationID string) bool {
	for _, id := range line.StationIDs {
		if id == stationID {
			return true
		}
	}
	return false
}

// TravelMinutes sums per-hop durations from fromID to toID along the
// direction the line actually runs (the shorter ring direction for
// bidirectional lines). Missing hop entries fall back to a default and are
// logged, since they mask a likely catalog mistake.
func (n *Network) TravelMinutes(line domain.Line, fromID, toID string) (int, error) {
	fromIdx, err := stationIndex(line, fromID)
	if err != nil {
		return 0, err
	}
	toIdx, err := stationIndex(line, toID)
	if err != nil {
		return 0, err
	}
	if fromIdx == toIdx {
		return 0, nil
	}

	ring := len(line.StationIDs)
	forward := (toIdx - fromIdx + ring) % ring
	step := 1
	hops := forward
	if n.IsBidirectional(line.ID) && ring-forward < forward {
		step = -1
		hops = ring - forward
	}

	total := 0
	idx := fromIdx
	for i := 0; i < hops; i++ {
		next := (idx + step + ring) % ring
		from, to := line.StationIDs[idx], line.StationIDs[next]
		if d, ok := n.durations[[2]string{from, to}]; ok {
			total += d
		} else {
			slog.Warn("duration map entry missing, using default",
				"line", line.ID, "from", from, "to", to, "default_minutes", defaultHopMinutes)
			total += defaultHopMinutes
		}
		idx = next
	}
	return total, nil
}
