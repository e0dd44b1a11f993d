package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/services"
	"github.com/ownstays/settlement-service/internal/utils"
)

// AdminPaymentsController is the manual/offline rail: an operator posts a
// payment they have already verified out-of-band (wire transfer, cash).
// The endpoint sits behind the admin JWT middleware, so by the time the
// request reaches here it is authenticated; the body is the verification.
type AdminPaymentsController struct {
	dispatcher *services.SettlementDispatcher
	validate   *validator.Validate
}

func NewAdminPaymentsController(dispatcher *services.SettlementDispatcher) *AdminPaymentsController {
	return &AdminPaymentsController{
		dispatcher: dispatcher,
		validate:   validator.New(),
	}
}

// ManualPaymentHandler -> POST /api/v1/admin/payments/manual
func (c *AdminPaymentsController) ManualPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ManualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Request failed validation", nil, err)
		return
	}

	ev := &dtos.PaymentEvent{
		Provider:     models.PaymentProviderManual,
		ExternalID:   req.ExternalID,
		AmountCents:  req.AmountCents,
		Currency:     strings.ToUpper(req.Currency),
		Purpose:      models.PaymentPurposeType(req.Purpose),
		PayerEmail:   req.PayerEmail,
		PayerName:    req.PayerName,
		ReferralCode: req.ReferralCode,
	}
	ev.CollectionID = parseOptionalUUID(req.CollectionID)
	ev.PricingTierID = parseOptionalUUID(req.PricingTierID)
	ev.BookingID = parseOptionalUUID(req.BookingID)
	ev.UserID = parseOptionalUUID(req.UserID)

	result, err := c.dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		// Manual entry is interactive: unlike the webhook rails, the
		// operator gets real status codes so bad input is corrected on
		// the spot.
		switch {
		case result != nil && !result.Success:
			utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, result.ErrorKind, "Payment could not be settled", result, err)
		default:
			utils.HandleAppError(w, err)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func parseOptionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
