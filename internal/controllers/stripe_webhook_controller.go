package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ownstays/settlement-service/internal/config"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/services"
	"github.com/ownstays/settlement-service/internal/utils"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookCheckParam = "id"

// StripeWebhookController is the card rail: it verifies the signature,
// maps checkout.session.completed to the normalized payment event and
// hands it to the settlement dispatcher.
type StripeWebhookController struct {
	cfg                     *config.Config
	dispatcher              *services.SettlementDispatcher
	webhookCheckService     *services.StripeWebhookCheckService
	webhookCheckGeneratedBy string
}

func NewStripeWebhookController(cfg *config.Config, dispatcher *services.SettlementDispatcher, webhookCheckService *services.StripeWebhookCheckService) *StripeWebhookController {
	wc := "webhook_check-" + fmt.Sprintf("%s-%s", cfg.AppName, cfg.Env)
	return &StripeWebhookController{
		cfg:                     cfg,
		dispatcher:              dispatcher,
		webhookCheckService:     webhookCheckService,
		webhookCheckGeneratedBy: wc,
	}
}

// WebhookHandler -> POST /api/v1/payments/stripe/webhook
func (c *StripeWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing Stripe-Signature header", nil)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read webhook body", nil, err)
		return
	}

	event, verifyErr := webhook.ConstructEvent(payload, sigHeader, c.cfg.StripeWebhookSecret)
	if verifyErr != nil {
		utils.Logger.WithError(verifyErr).Error("Stripe webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			utils.Logger.WithError(err).Error("Could not parse stripe.CheckoutSession object")
			w.WriteHeader(http.StatusOK)
			return
		}
		result := c.settleCheckoutSession(r, &session)
		utils.RespondWithJSON(w, http.StatusOK, result)
		return
	case stripe.EventTypePaymentIntentCreated:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
			if pi.Metadata[constants.WebhookMetadataGeneratedByKey] == c.webhookCheckGeneratedBy {
				c.webhookCheckService.HandlePaymentIntentCreated(event.ID, &pi)
			}
		} else {
			utils.Logger.WithError(err).Error("Could not parse payment intent in payment_intent.created")
		}
	default:
		utils.Logger.Infof("Unhandled Stripe event type received: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

// settleCheckoutSession builds the normalized event and dispatches it.
// Domain failures still answer 200: Stripe redelivery cannot fix a
// sold-out collection or an unknown tier, and the idempotency gate makes
// redeliveries harmless anyway.
func (c *StripeWebhookController) settleCheckoutSession(r *http.Request, session *stripe.CheckoutSession) *dtos.SettlementResult {
	ev := &dtos.PaymentEvent{
		Provider:    models.PaymentProviderStripe,
		ExternalID:  session.ID,
		AmountCents: session.AmountTotal,
		Currency:    strings.ToUpper(string(session.Currency)),
		Purpose:     models.PaymentPurposeOwnership, // default; metadata may override
	}
	if session.CustomerDetails != nil {
		ev.PayerEmail = session.CustomerDetails.Email
		ev.PayerName = session.CustomerDetails.Name
	}
	if ev.PayerEmail == "" {
		ev.PayerEmail = session.CustomerEmail
	}
	applyEventMetadata(ev, session.Metadata)

	result, err := c.dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Settlement of checkout session %s failed", session.ID)
		if result == nil {
			result = &dtos.SettlementResult{Success: false, ErrorKind: utils.ErrCodeInternal}
		}
	}
	return result
}

// WebhookCheckHandler -> GET /api/v1/payments/stripe/webhook/check
func (c *StripeWebhookController) WebhookCheckHandler(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get(webhookCheckParam)
	if eventID == "" {
		utils.RespondErrorWithCode(
			w,
			http.StatusBadRequest,
			utils.ErrCodeInvalidPayload,
			"Missing 'id' query param",
			nil,
		)
		return
	}

	found := c.webhookCheckService.ConsumeWebhookCheckEvent(eventID)
	if !found {
		utils.RespondErrorWithCode(
			w,
			http.StatusNotFound,
			utils.ErrCodeNotFound,
			"Event ID not recognized or already consumed",
			nil,
		)
		return
	}

	resp := dtos.WebhookCheckResponse{Message: "Webhook event recognized"}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
