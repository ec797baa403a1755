package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/engine"
	"github.com/Vasile-Andrei-Git/HolidayPlanner/internal/models"
)

// Resolver is the engine surface the HTTP layer depends on.
type Resolver interface {
	Resolve(ctx context.Context, window models.TripWindow, it models.Itinerary) (*engine.Result, error)
}

type ResolveHandler struct {
	resolver Resolver
}

func NewResolveHandler(r Resolver) *ResolveHandler {
	return &ResolveHandler{resolver: r}
}

func (h *ResolveHandler) Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ResolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(time.Now()); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	window := models.TripWindow{StartDate: req.StartDate, EndDate: req.EndDate}
	result, err := h.resolver.Resolve(ctx, window, req.Legs)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "resolve_error",
			Message: "Failed to resolve itineraries: " + err.Error(),
			Code:    http.StatusBadGateway,
		})
	}

	return c.JSON(http.StatusOK, models.ResolveResponse{
		Criteria: models.ResolveCriteria{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Legs:      req.Legs,
		},
		Metadata:    result.Metadata,
		Itineraries: result.Itineraries,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
