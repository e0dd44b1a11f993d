package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ownstays/settlement-service/internal/config"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/services"
	"github.com/ownstays/settlement-service/internal/utils"
)

// CryptoWebhookController is the crypto rail: Coinbase-Commerce-shaped
// webhooks authenticated by an HMAC-SHA256 signature over the raw body.
// Only charge:confirmed reaches the settlement engines - anything earlier
// in the charge lifecycle is not a completed payment.
type CryptoWebhookController struct {
	cfg        *config.Config
	dispatcher *services.SettlementDispatcher
}

func NewCryptoWebhookController(cfg *config.Config, dispatcher *services.SettlementDispatcher) *CryptoWebhookController {
	return &CryptoWebhookController{cfg: cfg, dispatcher: dispatcher}
}

// WebhookHandler -> POST /api/v1/payments/crypto/webhook
func (c *CryptoWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get(constants.CryptoSignatureHeader)
	if sigHeader == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing webhook signature header", nil)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read webhook body", nil, err)
		return
	}

	if !verifyCryptoSignature(payload, sigHeader, c.cfg.CryptoWebhookSecret) {
		utils.Logger.Error("Crypto webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var envelope dtos.CryptoWebhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		utils.Logger.WithError(err).Error("Could not parse crypto webhook envelope")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if envelope.Event.Type != constants.CryptoEventTypeConfirmed {
		utils.Logger.Infof("Unhandled crypto event type received: %s", envelope.Event.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	charge := envelope.Event.Data
	ev := &dtos.PaymentEvent{
		Provider:    models.PaymentProviderCoinbase,
		ExternalID:  charge.Code,
		AmountCents: parseLocalAmountCents(charge.Pricing.Local.Amount),
		Currency:    strings.ToUpper(charge.Pricing.Local.Currency),
		Purpose:     models.PaymentPurposeOwnership,
		PayerEmail:  charge.Metadata["payer_email"],
		PayerName:   charge.Metadata["payer_name"],
	}
	applyEventMetadata(ev, charge.Metadata)

	result, err := c.dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Settlement of crypto charge %s failed", charge.Code)
		if result == nil {
			result = &dtos.SettlementResult{Success: false, ErrorKind: utils.ErrCodeInternal}
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func verifyCryptoSignature(payload []byte, sigHeader, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sigHeader)))
}

// parseLocalAmountCents converts the charge's local fiat amount ("1200.00")
// to minor units. A malformed amount settles as zero and is caught by
// operators through the payment record rather than dropping the event.
func parseLocalAmountCents(amount string) int64 {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		utils.Logger.Warnf("Malformed crypto charge amount %q; recording zero", amount)
		return 0
	}
	return int64(math.Round(f * 100))
}
