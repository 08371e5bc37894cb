package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/venuepass/checkin-api/internal/api/handler/v1/request"
	"github.com/venuepass/checkin-api/internal/api/handler/v1/response"
	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/service"
)

type CheckpointService interface {
	Unlock(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error)
	Lock(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error)
}

type CheckpointHandler struct {
	svc  CheckpointService
	uSvc UserService
}

func NewCheckpointHandler(svc CheckpointService, uSvc UserService) *CheckpointHandler {
	return &CheckpointHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleToggleCheckpoint godoc
// @Summary      Lock or unlock a checkpoint for scanning
// @Description  Unlocking a checkpoint other than "Registration" atomically locks every other non-"Registration" checkpoint. Organizer or admin only.
// @Tags         events,checkpoints
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                              true  "Event ID"
// @Param        request  body      request.CheckpointToggleRequest  true  "toggle request"
// @Success      200  {object}  response.CheckpointToggleResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/checkpoints/toggle [post]
// @Security BearerAuth
func (h *CheckpointHandler) HandleToggleCheckpoint(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.CanManageEvent() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not authorized to toggle checkpoints", user.ID)))

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))

		return
	}

	var req request.CheckpointToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var event domain.Event
	if req.Action == request.CheckpointActionUnlock {
		event, err = h.svc.Unlock(ctx.Request.Context(), uint(eventID), req.Checkpoint)
	} else {
		event, err = h.svc.Lock(ctx.Request.Context(), uint(eventID), req.Checkpoint)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrUnknownCheckpoint):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUnknownCheckpoint))
		default:
			err = fmt.Errorf("v1.HandleToggleCheckpoint -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.CheckpointToggleResponse{
		EventID:             event.ID,
		Checkpoints:         event.Checkpoints,
		UnlockedCheckpoints: event.UnlockedCheckpoints,
	})
}
