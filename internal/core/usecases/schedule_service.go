package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/network"
)

// NextDepartureInfo describes the next scheduled departure reaching a station
// after a given arrival time.
type NextDepartureInfo struct {
	LineID      string     `json:"line_id"`
	StationID   string     `json:"station_id"`
	ArrivalTime time.Time  `json:"arrival_time"`
	DepartureAt *time.Time `json:"departure_at,omitempty"`
	WaitMinutes int        `json:"wait_minutes"`
	// Missed is set when the last service of the day has already passed.
	Missed bool `json:"missed"`
}

// ScheduleService answers timetable questions against the static network.
type ScheduleService struct {
	net *network.Network
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(net *network.Network) *ScheduleService {
	return &ScheduleService{net: net}
}

// NextDeparture computes when the next vehicle of a line reaches a station
// for a rider arriving there at arrivalTime.
func (s *ScheduleService) NextDeparture(ctx context.Context, lineID, stationID string, arrivalTime time.Time) (*NextDepartureInfo, error) {
	line, ok := s.net.Line(lineID)
	if !ok {
		return nil, fmt.Errorf("line %q: %w", lineID, domain.ErrLineNotFound)
	}

	next, err := s.net.NextDeparture(line, arrivalTime, stationID)
	if err != nil {
		return nil, err
	}

	info := &NextDepartureInfo{
		LineID:      lineID,
		StationID:   stationID,
		ArrivalTime: arrivalTime,
		DepartureAt: next,
		WaitMinutes: network.WaitMinutes(arrivalTime, next),
		Missed:      next == nil,
	}
	return info, nil
}
