package network

import (
	"fmt"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// parseClock anchors a "HH:MM" local time of day to the calendar date of ref.
func parseClock(clock string, ref time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timetable clock %q: %w", clock, err)
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}

// NextDeparture simulates vehicles leaving the line's start station at the
// timetabled first departure and then every interval until the last
// departure, all anchored to arrivalTime's date. It returns the time the
// first boardable vehicle reaches the transfer station, or nil when the
// rider has missed the last vehicle of the day.
func (n *Network) NextDeparture(line domain.Line, arrivalTime time.Time, transferStationID string) (*time.Time, error) {
	if len(line.StationIDs) == 0 {
		return nil, fmt.Errorf("%w: line %q has no stations", domain.ErrStationNotOnLine, line.ID)
	}

	travel, err := n.TravelMinutes(line, line.StationIDs[0], transferStationID)
	if err != nil {
		return nil, err
	}

	first, err := parseClock(line.Timetable.FirstDeparture, arrivalTime)
	if err != nil {
		return nil, err
	}
	last, err := parseClock(line.Timetable.LastDeparture, arrivalTime)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(line.Timetable.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Minute
	}

	for dep := first; !dep.After(last); dep = dep.Add(interval) {
		atStation := dep.Add(time.Duration(travel) * time.Minute)
		if !atStation.Before(arrivalTime) {
			return &atStation, nil
		}
	}
	return nil, nil
}

// WaitMinutes returns the rounded wait between arriving at a station and the
// next boardable departure. A nil departure (missed the last vehicle) waits
// zero minutes.
func WaitMinutes(arrivalTime time.Time, nextDeparture *time.Time) int {
	if nextDeparture == nil {
		return 0
	}
	mins := int(nextDeparture.Sub(arrivalTime).Round(time.Minute) / time.Minute)
	if mins < 0 {
		return 0
	}
	return mins
}
