package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/sabsesasta/price-service/internal/comparison"
	"github.com/sabsesasta/price-service/internal/database"
	"github.com/sabsesasta/price-service/internal/listings"
	"github.com/sabsesasta/price-service/internal/middleware"
)

// ComparisonDataHeader is set on a successful response whose listing snapshot
// could not be loaded. The body is then the canonical empty result and must
// be read as insufficient data, not as a zero-cost list.
const (
	ComparisonDataHeader      = "X-Comparison-Data"
	ComparisonDataUnavailable = "unavailable"
)

// CompareRequest is the body of an ad-hoc comparison. Records use the same
// loose field names as catalog files and database rows.
type CompareRequest struct {
	Items    []comparison.Record `json:"items" binding:"required"`
	Listings []comparison.Record `json:"listings"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	comparer      *comparison.Comparer
	listingSource listings.ListingSource
	itemSource    listings.ItemSource
	maxItems      int

	tracer = otel.Tracer("github.com/sabsesasta/price-service/internal/handlers")
)

// InitComparison wires the comparison handlers.
// This should be called during application startup
func InitComparison(c *comparison.Comparer, ls listings.ListingSource, is listings.ItemSource, limit int) {
	comparer = c
	listingSource = ls
	itemSource = is
	maxItems = limit
}

// Compare handles an ad-hoc comparison of inline items and listings
// @Summary Compare a shopping list across vendors
// @Description Prices the given items at every vendor found in the given listings and computes the cheapest per-item allocation
// @Tags comparison
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Items and listings"
// @Success 200 {object} comparison.Result
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /internal/compare [post]
func Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if maxItems > 0 && len(req.Items) > maxItems {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("too many items: %d (max %d)", len(req.Items), maxItems),
		})
		return
	}

	items := comparison.ItemsFromRecords(req.Items)
	snapshot := comparison.ListingsFromRecords(req.Listings)

	c.JSON(http.StatusOK, comparer.Run(c.Request.Context(), items, snapshot))
}

// ShoppingListCosts compares the stored shopping list of the requesting user
// @Summary Shopping list costs
// @Description Compares the user's shopping list against the current vendor listings. When the listing snapshot is unavailable the empty result is returned with X-Comparison-Data set to unavailable.
// @Tags comparison
// @Produce json
// @Param listId path string true "Shopping list ID (UUID)"
// @Param X-User-ID header string true "Requesting user"
// @Success 200 {object} comparison.Result
// @Failure 400 {object} ErrorResponse "Invalid list ID"
// @Failure 401 {object} ErrorResponse "Missing user"
// @Failure 404 {object} ErrorResponse "Shopping list not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /internal/shopping-lists/{listId}/costs [get]
func ShoppingListCosts(c *gin.Context) {
	listID := c.Param("listId")
	userID := middleware.UserID(c)

	ctx, span := tracer.Start(c.Request.Context(), "handlers.ShoppingListCosts")
	defer span.End()
	span.SetAttributes(attribute.String("shopping_list.id", listID))

	logger := log.With().
		Str("component", "handlers").
		Str("list_id", listID).
		Str("request_id", middleware.RequestIDFromContext(ctx)).
		Logger()

	var (
		items       []comparison.RequestedItem
		snapshot    []comparison.VendorListing
		snapshotErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = itemSource.ListItems(gctx, listID, userID)
		return err
	})
	g.Go(func() error {
		// A snapshot failure degrades the response instead of failing it.
		snapshot, snapshotErr = listingSource.Listings(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, database.ErrInvalidListID):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid list ID"})
		case errors.Is(err, database.ErrListNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "shopping list not found"})
		default:
			span.SetStatus(codes.Error, "load shopping list")
			logger.Error().Err(err).Msg("Failed to load shopping list")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load shopping list"})
		}
		return
	}

	span.SetAttributes(attribute.Int("shopping_list.items", len(items)))

	if len(items) == 0 {
		c.JSON(http.StatusOK, comparer.Run(ctx, items, nil))
		return
	}

	if snapshotErr != nil {
		span.RecordError(snapshotErr)
		comparer.Metrics().RecordEmptyResult("source_unavailable")
		logger.Warn().
			Err(snapshotErr).
			Int("items", len(items)).
			Bool("circuit_open", errors.Is(snapshotErr, listings.ErrCircuitOpen)).
			Msg("Listing snapshot unavailable, returning empty comparison")
		c.Header(ComparisonDataHeader, ComparisonDataUnavailable)
		c.JSON(http.StatusOK, comparison.EmptyResult())
		return
	}

	c.JSON(http.StatusOK, comparer.Run(ctx, items, snapshot))
}
