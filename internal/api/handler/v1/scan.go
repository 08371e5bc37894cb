package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuepass/checkin-api/internal/api/handler/v1/request"
	"github.com/venuepass/checkin-api/internal/api/handler/v1/response"
	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/service"
)

type ScanService interface {
	Scan(ctx context.Context, cred, checkpoint string, operator domain.User) (domain.ScanResult, error)
}

type ScanHandler struct {
	svc  ScanService
	uSvc UserService
	feed *FeedHandler
}

func NewScanHandler(svc ScanService, uSvc UserService, feed *FeedHandler) *ScanHandler {
	return &ScanHandler{
		svc:  svc,
		uSvc: uSvc,
		feed: feed,
	}
}

// HandleScan godoc
// @Summary      Record a checkpoint visit for a presented credential
// @Description  Verifies the credential, enforces checkpoint ordering and idempotency, and commits the visit. Requires volunteer, organizer or admin role.
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        request  body      request.ScanRequest  true  "scan request"
// @Success      200  {object}  response.ScanResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.ScanResponse
// @Failure      500  {object}  response.Err
// @Router       /scan [post]
// @Security BearerAuth
func (h *ScanHandler) HandleScan(ctx *gin.Context) {
	operator, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !operator.CanScan() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not authorized to scan", operator.ID)))

		return
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.svc.Scan(ctx.Request.Context(), req.Credential, req.Checkpoint, operator)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCheckpoint) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUnknownCheckpoint))

			return
		}

		err = fmt.Errorf("v1.HandleScan -> h.svc.Scan -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	h.feed.Publish(result)

	ctx.JSON(statusForOutcome(result.Outcome), response.NewScanResponse(result))
}

func statusForOutcome(outcome domain.ScanOutcome) int {
	switch outcome {
	case domain.ScanSuccess:
		return http.StatusOK
	case domain.ScanNotFound:
		return http.StatusNotFound
	case domain.ScanAlreadyCheckedIn:
		return http.StatusConflict
	case domain.ScanNotApproved:
		return http.StatusForbidden
	default:
		// invalid_credential, wrong_checkpoint, checkpoint_locked
		return http.StatusBadRequest
	}
}
