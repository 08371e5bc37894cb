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

type RegistrationService interface {
	Submit(ctx context.Context, eventID uint, participant domain.User) (domain.Registration, error)
	Approve(ctx context.Context, registrationID uint, approver domain.User) (domain.Registration, error)
	Reject(ctx context.Context, registrationID uint, reason string, approver domain.User) (domain.Registration, error)
	Get(ctx context.Context, registrationID uint) (domain.Registration, error)
}

type RegistrationHandler struct {
	svc  RegistrationService
	uSvc UserService
}

func NewRegistrationHandler(svc RegistrationService, uSvc UserService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSubmitRegistration godoc
// @Summary      Register the authenticated participant for an event
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201  {object}  domain.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleSubmitRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))

		return
	}

	registration, err := h.svc.Submit(ctx.Request.Context(), uint(eventID), user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantRole):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrParticipantRole))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrRegistrationExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRegistrationExists))
		default:
			err = fmt.Errorf("v1.HandleSubmitRegistration -> h.svc.Submit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, registration)
}

// HandleApproveRegistration godoc
// @Summary      Approve a pending registration and issue its credential
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200  {object}  domain.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID}/approve [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleApproveRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.CanManageEvent() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not authorized to approve registrations", user.ID)))

		return
	}

	registrationID, err := strconv.ParseUint(ctx.Param("registrationID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid registration ID: %w", err)))

		return
	}

	registration, err := h.svc.Approve(ctx.Request.Context(), uint(registrationID), user)
	if err != nil {
		h.renderUpdateErr(ctx, registrationID, err)

		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleRejectRegistration godoc
// @Summary      Reject a pending registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        registrationID  path      int                                true  "Registration ID"
// @Param        request         body      request.RejectRegistrationRequest  true  "rejection reason"
// @Success      200  {object}  domain.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID}/reject [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleRejectRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.CanManageEvent() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not authorized to reject registrations", user.ID)))

		return
	}

	registrationID, err := strconv.ParseUint(ctx.Param("registrationID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid registration ID: %w", err)))

		return
	}

	var req request.RejectRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	registration, err := h.svc.Reject(ctx.Request.Context(), uint(registrationID), req.Reason, user)
	if err != nil {
		h.renderUpdateErr(ctx, registrationID, err)

		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleGetRegistration godoc
// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200  {object}  domain.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID} [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	registrationID, err := strconv.ParseUint(ctx.Param("registrationID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid registration ID: %w", err)))

		return
	}

	registration, err := h.svc.Get(ctx.Request.Context(), uint(registrationID))
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("registration", "ID", registrationID))

			return
		}

		err = fmt.Errorf("v1.HandleGetRegistration -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	// Participants may only read their own registration.
	if user.Role == domain.RoleParticipant && registration.ParticipantID != user.ID {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot read registration %v", user.ID, registrationID)))

		return
	}

	ctx.JSON(http.StatusOK, registration)
}

func (h *RegistrationHandler) renderUpdateErr(ctx *gin.Context, registrationID uint64, err error) {
	switch {
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("registration", "ID", registrationID))
	case errors.Is(err, service.ErrRegistrationFinal):
		response.RenderErr(ctx, response.ErrConflict(service.ErrRegistrationFinal))
	default:
		err = fmt.Errorf("v1.RegistrationHandler -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
