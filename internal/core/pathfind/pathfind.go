package pathfind

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/network"
	"github.com/minjae-ko/loopline/internal/core/pricing"
)

// maxResults caps how many recommended itineraries a search returns.
const maxResults = 3

// Pathfinder enumerates direct and one-transfer itineraries over the line
// network and prices them. It holds only immutable reference data, so a
// single instance serves concurrent searches.
type Pathfinder struct {
	net    *network.Network
	engine *pricing.Engine
}

// New builds a Pathfinder over a network and pricing engine.
func New(net *network.Network, engine *pricing.Engine) *Pathfinder {
	return &Pathfinder{net: net, engine: engine}
}

// CreateLeg builds a priced, timed leg for one ride on a line. The base fare
// charges the line's base plus a per-stop extra beyond a two-stop free
// allowance.
func (p *Pathfinder) CreateLeg(id string, line domain.Line, fromID, toID string) (domain.Leg, error) {
	stops, err := p.net.StopsCount(line, fromID, toID)
	if err != nil {
		return domain.Leg{}, err
	}
	duration, err := p.net.TravelMinutes(line, fromID, toID)
	if err != nil {
		return domain.Leg{}, err
	}

	fromIdx, toIdx := indexOf(line, fromID), indexOf(line, toID)

	extraStops := stops - 2
	if extraStops < 0 {
		extraStops = 0
	}

	return domain.Leg{
		ID:              id,
		LineID:          line.ID,
		LineName:        line.Name,
		LineColor:       line.Color,
		FromStationID:   fromID,
		FromIndex:       fromIdx,
		ToStationID:     toID,
		ToIndex:         toIdx,
		DurationMinutes: duration,
		StopCount:       stops,
		BaseFare:        line.BaseFare + float64(extraStops)*line.ExtraFarePerStop,
	}, nil
}

func indexOf(line domain.Line, stationID string) int {
	for i, id := range line.StationIDs {
		if id == stationID {
			return i
		}
	}
	return -1
}

// FindDirectPath returns a single-leg path on the first declared line
// serving both stations, or nil when no line does. Declaration order is
// deliberate: when several lines connect the pair, the canonical (first)
// line wins.
func (p *Pathfinder) FindDirectPath(fromID, toID string) ([]domain.Leg, error) {
	line, ok := p.net.FindDirectLine(fromID, toID)
	if !ok {
		return nil, nil
	}
	leg, err := p.CreateLeg(uuid.NewString(), line, fromID, toID)
	if err != nil {
		return nil, err
	}
	return []domain.Leg{leg}, nil
}

// FindOneTransferPaths enumerates two-leg paths through every interchange:
// a station served by at least two lines, excluding the origin and
// destination themselves. Each interchange contributes at most one path,
// built from the first line reaching it from the origin and the first
// different line continuing to the destination.
func (p *Pathfinder) FindOneTransferPaths(fromID, toID string) ([][]domain.Leg, error) {
	var paths [][]domain.Leg

	for _, station := range p.interchanges() {
		if station == fromID || station == toID {
			continue
		}

		first, ok := p.net.FindDirectLine(fromID, station)
		if !ok {
			continue
		}
		second, ok := p.directLineExcluding(station, toID, first.ID)
		if !ok {
			continue
		}

		leg1, err := p.CreateLeg(uuid.NewString(), first, fromID, station)
		if err != nil {
			return nil, err
		}
		leg2, err := p.CreateLeg(uuid.NewString(), second, station, toID)
		if err != nil {
			return nil, err
		}
		paths = append(paths, []domain.Leg{leg1, leg2})
	}
	return paths, nil
}

// interchanges lists stations served by two or more lines, preserving the
// station order of the line declarations so enumeration is deterministic.
func (p *Pathfinder) interchanges() []string {
	counts := make(map[string]int)
	var order []string
	for _, line := range p.net.Lines() {
		for _, id := range line.StationIDs {
			counts[id]++
			if counts[id] == 1 {
				order = append(order, id)
			}
		}
	}
	var out []string
	for _, id := range order {
		if counts[id] >= 2 {
			out = append(out, id)
		}
	}
	return out
}

// directLineExcluding finds the first declared line serving both stations
// that is not the excluded line.
func (p *Pathfinder) directLineExcluding(fromID, toID, excludeLineID string) (domain.Line, bool) {
	if fromID == toID {
		return domain.Line{}, false
	}
	for _, line := range p.net.Lines() {
		if line.ID == excludeLineID {
			continue
		}
		if indexOf(line, fromID) >= 0 && indexOf(line, toID) >= 0 {
			return line, true
		}
	}
	return domain.Line{}, false
}

// FindAllPaths returns the direct path (if any) followed by every
// one-transfer path. Longer transfer chains are out of scope.
func (p *Pathfinder) FindAllPaths(fromID, toID string) ([][]domain.Leg, error) {
	var paths [][]domain.Leg

	direct, err := p.FindDirectPath(fromID, toID)
	if err != nil {
		return nil, err
	}
	if direct != nil {
		paths = append(paths, direct)
	}

	transfers, err := p.FindOneTransferPaths(fromID, toID)
	if err != nil {
		return nil, err
	}
	return append(paths, transfers...), nil
}

// CreateItinerary prices a leg sequence and assembles the derived totals.
// Total duration is pure ride time; transfer dwell is reported separately by
// the schedule calculator, not folded in here.
func (p *Pathfinder) CreateItinerary(id string, legs []domain.Leg, lineMap map[string]domain.Line) (domain.Itinerary, error) {
	priced, err := pricing.LegsWithTransferDiscount(legs, lineMap)
	if err != nil {
		return domain.Itinerary{}, err
	}

	breakdown := pricing.ItineraryPricing(priced)

	total := 0
	for _, leg := range priced {
		total += leg.DurationMinutes
	}

	return domain.Itinerary{
		ID:                   id,
		Legs:                 priced,
		TotalDurationMinutes: total,
		TransferCount:        len(priced) - 1,
		Pricing:              breakdown,
	}, nil
}

// SearchItineraries builds every candidate itinerary between two stations
// and selects up to three: shortest ride time, fewest transfers, and lowest
// pre-coupon fare. A winner of several categories is returned once with all
// of its tags. Identical origin/destination or an unreachable pair is a
// normal empty result.
func (p *Pathfinder) SearchItineraries(fromID, toID string) ([]domain.Itinerary, error) {
	if fromID == toID {
		return nil, nil
	}

	paths, err := p.FindAllPaths(fromID, toID)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	lineMap := p.net.LineMap()
	candidates := make([]domain.Itinerary, 0, len(paths))
	for _, legs := range paths {
		itin, err := p.CreateItinerary(uuid.NewString(), legs, lineMap)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, itin)
	}

	shortest := 0
	minTransfer := 0
	cheapest := 0
	for i, c := range candidates {
		if c.TotalDurationMinutes < candidates[shortest].TotalDurationMinutes {
			shortest = i
		}
		if c.TransferCount < candidates[minTransfer].TransferCount {
			minTransfer = i
		}
		if c.Pricing.TotalBeforeCoupon < candidates[cheapest].Pricing.TotalBeforeCoupon {
			cheapest = i
		}
	}

	var results []domain.Itinerary
	selected := make(map[int]int) // candidate index -> position in results

	pick := func(idx int, tag domain.RecommendTag) {
		if pos, ok := selected[idx]; ok {
			results[pos].Tags = append(results[pos].Tags, tag)
			return
		}
		if len(results) >= maxResults {
			return
		}
		itin := candidates[idx]
		itin.Tags = []domain.RecommendTag{tag}
		selected[idx] = len(results)
		results = append(results, itin)
	}

	pick(shortest, domain.TagShortestTime)
	pick(minTransfer, domain.TagMinTransfer)
	pick(cheapest, domain.TagLowestFare)

	return results, nil
}

// Describe renders a short human label for a path, used in logs.
func Describe(legs []domain.Leg) string {
	if len(legs) == 0 {
		return "(empty)"
	}
	out := legs[0].FromStationID
	for _, leg := range legs {
		out += fmt.Sprintf(" -[%s]-> %s", leg.LineID, leg.ToStationID)
	}
	return out
}
