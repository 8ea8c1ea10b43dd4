package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/usecases"
	"github.com/minjae-ko/loopline/internal/pkg/metrics"
)

// parseDepartAt reads an RFC 3339 departure time, defaulting to now.
func parseDepartAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// --- Stations ---

// ListStationsHandler returns every station on the network.
func ListStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		byID := deps.Network.Stations()
		stations := make([]domain.Station, 0, len(byID))
		for _, line := range deps.Network.Lines() {
			for _, id := range line.StationIDs {
				if s, ok := byID[id]; ok {
					stations = append(stations, s)
					delete(byID, id)
				}
			}
		}
		// Stations served by no line still exist in the catalog.
		for _, s := range byID {
			stations = append(stations, s)
		}

		start, end, pg := paginateBounds(c, len(stations))
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: stations[start:end], Pagination: pg})
	}
}

// GetStationHandler returns a single station.
func GetStationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		station, ok := deps.Network.Station(c.Params("id"))
		if !ok {
			return errNotFound(c, "station not found")
		}
		return c.JSON(station)
	}
}

// StationLinesHandler returns the lines serving a station.
func StationLinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, ok := deps.Network.Station(id); !ok {
			return errNotFound(c, "station not found")
		}
		return c.JSON(fiber.Map{"data": deps.Network.LinesByStation(id)})
	}
}

// --- Lines ---

// ListLinesHandler returns every line in declaration order.
func ListLinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lines := deps.Network.Lines()
		start, end, pg := paginateBounds(c, len(lines))
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: lines[start:end], Pagination: pg})
	}
}

// GetLineHandler returns a single line with its ring direction.
func GetLineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		line, ok := deps.Network.Line(c.Params("id"))
		if !ok {
			return errNotFound(c, "line not found")
		}
		return c.JSON(fiber.Map{
			"line":      line,
			"direction": deps.Network.Direction(line.ID),
		})
	}
}

// LineStationsHandler returns a line's stations in ring order.
func LineStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		line, ok := deps.Network.Line(c.Params("id"))
		if !ok {
			return errNotFound(c, "line not found")
		}

		stations := make([]domain.Station, 0, len(line.StationIDs))
		for _, id := range line.StationIDs {
			if s, ok := deps.Network.Station(id); ok {
				stations = append(stations, s)
			}
		}
		return c.JSON(fiber.Map{"data": stations})
	}
}

// NextDepartureHandler answers "when does the next vehicle of this line reach
// this station after the given time".
func NextDepartureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stationID := c.Query("station")
		if stationID == "" {
			return errBadRequest(c, "station query parameter is required")
		}

		at, err := parseDepartAt(c.Query("at"))
		if err != nil {
			return errBadRequest(c, "at must be RFC 3339")
		}

		info, err := deps.Schedules.NextDeparture(c.UserContext(), c.Params("id"), stationID, at)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrLineNotFound):
				return errNotFound(c, "line not found")
			case errors.Is(err, domain.ErrStationNotOnLine):
				return errBadRequest(c, "station is not on this line")
			default:
				return errInternal(c, err.Error())
			}
		}
		return c.JSON(info)
	}
}

// --- Itineraries ---

// SearchItinerariesHandler runs the pathfinder. No results is a 200 with an
// empty list, never an error.
func SearchItinerariesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return errBadRequest(c, "from and to query parameters are required")
		}

		results, err := deps.Search.Search(c.UserContext(), from, to)
		if err != nil {
			return errInternal(c, err.Error())
		}

		outcome := "found"
		if len(results) == 0 {
			outcome = "empty"
			results = []domain.Itinerary{}
		}
		metrics.ItinerarySearches.WithLabelValues(outcome).Inc()

		return c.JSON(fiber.Map{"data": results})
	}
}

// GetItineraryHandler returns a previously searched itinerary.
func GetItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		itin, err := deps.Search.GetItinerary(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(itin)
	}
}

// --- Fares ---

type farePreviewRequest struct {
	ItineraryID string       `json:"itinerary_id"`
	Legs        []domain.Leg `json:"legs"`
	CouponCode  string       `json:"coupon_code"`
	DepartAt    string       `json:"depart_at"`
}

// FarePreviewHandler prices a trip with an optional coupon without reserving
// anything. The trip is either a stored itinerary referenced by id or raw
// legs supplied inline.
func FarePreviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req farePreviewRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.ItineraryID == "" && len(req.Legs) == 0 {
			return errBadRequest(c, "itinerary_id or legs is required")
		}
		if req.ItineraryID != "" && len(req.Legs) > 0 {
			return errBadRequest(c, "itinerary_id and legs are mutually exclusive")
		}

		departAt, err := parseDepartAt(req.DepartAt)
		if err != nil {
			return errBadRequest(c, "depart_at must be RFC 3339")
		}

		var preview *usecases.FarePreview
		if req.ItineraryID != "" {
			preview, err = deps.Fares.Preview(c.UserContext(), req.ItineraryID, req.CouponCode, departAt)
		} else {
			preview, err = deps.Fares.PreviewLegs(c.UserContext(), req.Legs, req.CouponCode, departAt)
			// Raw legs are caller input, so a bad line reference is their
			// mistake rather than a data-integrity fault.
			if err != nil && errors.Is(err, domain.ErrLineNotFound) {
				return errBadRequest(c, err.Error())
			}
		}
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(preview)
	}
}

// --- Coupons ---

type claimCouponRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// ListCouponsHandler returns the coupon catalog.
func ListCouponsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": deps.Coupons.ListCatalog(c.UserContext())})
	}
}

// ClaimCouponHandler adds a coupon to a user's wallet.
func ClaimCouponHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req claimCouponRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.UserID == "" || req.Code == "" {
			return errBadRequest(c, "user_id and code are required")
		}

		entry, err := deps.Coupons.Claim(c.UserContext(), req.UserID, req.Code)
		if err != nil {
			return mapDomainError(c, err)
		}

		metrics.CouponsClaimed.WithLabelValues(req.Code).Inc()
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// UserCouponsHandler returns a user's claimed coupons.
func UserCouponsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := deps.Coupons.Wallet(c.UserContext(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"data": entries})
	}
}

// --- Bookings ---

type createBookingRequest struct {
	UserID      string   `json:"user_id"`
	ItineraryID string   `json:"itinerary_id"`
	Seats       []string `json:"seats"`
	CouponCode  string   `json:"coupon_code"`
	DepartAt    string   `json:"depart_at"`
}

// CreateBookingHandler holds seats on an itinerary.
func CreateBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createBookingRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.UserID == "" || req.ItineraryID == "" || len(req.Seats) == 0 {
			return errBadRequest(c, "user_id, itinerary_id and seats are required")
		}

		departAt, err := parseDepartAt(req.DepartAt)
		if err != nil {
			return errBadRequest(c, "depart_at must be RFC 3339")
		}

		booking, err := deps.Bookings.Create(c.UserContext(), usecases.CreateBookingRequest{
			UserID:      req.UserID,
			ItineraryID: req.ItineraryID,
			Seats:       req.Seats,
			CouponCode:  req.CouponCode,
			DepartAt:    departAt,
		})
		if err != nil {
			if errors.Is(err, domain.ErrSeatTaken) {
				metrics.SeatConflicts.Inc()
			}
			return mapDomainError(c, err)
		}

		metrics.BookingsCreated.Inc()
		return c.Status(fiber.StatusCreated).JSON(booking)
	}
}

// GetBookingHandler returns a booking by id.
func GetBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		booking, err := deps.Bookings.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(booking)
	}
}

// ConfirmBookingHandler finalizes a held booking.
func ConfirmBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		booking, err := deps.Bookings.Confirm(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapDomainError(c, err)
		}
		metrics.BookingsConfirmed.Inc()
		return c.JSON(booking)
	}
}

// CancelBookingHandler cancels a booking and releases its seats.
func CancelBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		booking, err := deps.Bookings.Cancel(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapDomainError(c, err)
		}
		metrics.BookingsCancelled.Inc()
		return c.JSON(booking)
	}
}

// UserBookingsHandler returns a user's bookings, newest first.
func UserBookingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookings, err := deps.Bookings.ListByUser(c.UserContext(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if bookings == nil {
			bookings = []domain.Booking{}
		}
		return c.JSON(fiber.Map{"data": bookings})
	}
}
