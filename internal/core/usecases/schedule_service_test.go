package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/network"
	"github.com/minjae-ko/loopline/internal/core/usecases"
)

func scheduleNetwork() *network.Network {
	stations := []domain.Station{{ID: "p"}, {ID: "q"}, {ID: "r"}}
	lines := []domain.Line{
		{
			ID: "one-way", Name: "One Way",
			StationIDs: []string{"p", "q", "r"},
			Timetable:  domain.Timetable{FirstDeparture: "06:00", LastDeparture: "22:00", IntervalMinutes: 10},
		},
	}
	durations := map[[2]string]int{
		{"p", "q"}: 5, {"q", "r"}: 6, {"r", "p"}: 5,
	}
	return network.New(stations, lines, nil, durations)
}

func TestScheduleService_NextDeparture(t *testing.T) {
	svc := usecases.NewScheduleService(scheduleNetwork())

	// Vehicles reach r at :11 past each departure; arriving 06:15 the next
	// one through is the 06:10 departure arriving 06:21.
	arrival := time.Date(2025, 3, 14, 6, 15, 0, 0, time.UTC)
	info, err := svc.NextDeparture(context.Background(), "one-way", "r", arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Missed {
		t.Fatal("service should still be running at 06:15")
	}
	want := time.Date(2025, 3, 14, 6, 21, 0, 0, time.UTC)
	if info.DepartureAt == nil || !info.DepartureAt.Equal(want) {
		t.Errorf("departure at = %v, want %s", info.DepartureAt, want)
	}
	if info.WaitMinutes != 6 {
		t.Errorf("wait = %d minutes, want 6", info.WaitMinutes)
	}
}

func TestScheduleService_NextDepartureAfterLastService(t *testing.T) {
	svc := usecases.NewScheduleService(scheduleNetwork())

	arrival := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	info, err := svc.NextDeparture(context.Background(), "one-way", "r", arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.Missed || info.DepartureAt != nil {
		t.Errorf("info = %+v, want a missed service with no departure", info)
	}
	if info.WaitMinutes != 0 {
		t.Errorf("wait = %d, want 0 when service is over", info.WaitMinutes)
	}
}

func TestScheduleService_NextDepartureUnknownLine(t *testing.T) {
	svc := usecases.NewScheduleService(scheduleNetwork())
	_, err := svc.NextDeparture(context.Background(), "ghost", "r", time.Now())
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestScheduleService_NextDepartureUnknownStation(t *testing.T) {
	svc := usecases.NewScheduleService(scheduleNetwork())
	_, err := svc.NextDeparture(context.Background(), "one-way", "zz", time.Now())
	if !errors.Is(err, domain.ErrStationNotOnLine) {
		t.Fatalf("expected ErrStationNotOnLine, got %v", err)
	}
}
