package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	publicMiddleware "github.com/sahmwel/sahmticket-sub000/pkg/middleware"
	"github.com/sahmwel/sahmticket-sub000/pkg/response"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type HTTPHandler struct {
	Validate          *validator.Validate
	TicketTierUseCase TicketTierUseCase
}

func InitHTTPHandler(router *mux.Router, validate *validator.Validate, ticketTierUseCase TicketTierUseCase) {
	handler := &HTTPHandler{
		Validate:          validate,
		TicketTierUseCase: ticketTierUseCase,
	}

	router.HandleFunc("/sahmticket/v1/adminapp/tiers", publicMiddleware.SetRouteChain(handler.CreateTier)).Methods(http.MethodPost)
	router.HandleFunc("/sahmticket/v1/adminapp/tiers/allocation", publicMiddleware.SetRouteChain(handler.AdjustAllocation)).Methods(http.MethodPut)
	router.HandleFunc("/sahmticket/v1/adminapp/tiers/{id}", publicMiddleware.SetRouteChain(handler.DeactivateTier)).Methods(http.MethodDelete)
}

func (handler HTTPHandler) validate(ctx context.Context, payload interface{}) error {
	err := handler.Validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	return fmt.Errorf("%s", strings.Join(errMessages, ", "))
}

func (handler HTTPHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := CreateTierRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.TicketTierUseCase.CreateTier(ctx, req)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "ticket tier has been successfully created",
		Data:    resp,
	})
}

func (handler HTTPHandler) AdjustAllocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := AdjustAllocationRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.TicketTierUseCase.AdjustAllocation(ctx, req)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "ticket tier's allocation has been successfully adjusted",
		Data:    resp,
	})
}

func (handler HTTPHandler) DeactivateTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := mux.Vars(r)

	if err := handler.TicketTierUseCase.DeactivateTier(ctx, vars["id"]); err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "ticket tier has been successfully deactivated",
	})
}
