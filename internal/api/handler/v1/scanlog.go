package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/venuepass/checkin-api/internal/api/handler/v1/response"
	"github.com/venuepass/checkin-api/internal/domain"
)

const (
	defaultScanLogLimit = 50
	maxScanLogLimit     = 500
)

type ScanLogService interface {
	ListByEvent(ctx context.Context, eventID uint, outcome string, limit, offset int) ([]domain.ScanLog, error)
}

type ScanLogHandler struct {
	svc  ScanLogService
	uSvc UserService
}

func NewScanLogHandler(svc ScanLogService, uSvc UserService) *ScanLogHandler {
	return &ScanLogHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListScanLogs godoc
// @Summary      List scan audit entries for an event
// @Description  Returns scan attempts newest first, optionally filtered by outcome. Organizer or admin only.
// @Tags         events,scan
// @Produce      json
// @Param        eventID  path      int     true   "Event ID"
// @Param        outcome  query     string  false  "filter by outcome"
// @Param        limit    query     int     false  "page size (default 50, max 500)"
// @Param        offset   query     int     false  "page offset"
// @Success      200  {array}   domain.ScanLog
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/scan-logs [get]
// @Security BearerAuth
func (h *ScanLogHandler) HandleListScanLogs(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.CanManageEvent() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not authorized to read scan logs", user.ID)))

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))

		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultScanLogLimit)))
	if err != nil || limit < 1 || limit > maxScanLogLimit {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid limit")))

		return
	}

	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid offset")))

		return
	}

	logs, err := h.svc.ListByEvent(ctx.Request.Context(), uint(eventID), ctx.Query("outcome"), limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleListScanLogs -> h.svc.ListByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, logs)
}
