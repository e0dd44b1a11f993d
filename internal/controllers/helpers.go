package controllers

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/utils"
)

// applyEventMetadata fills the normalized payment event from the metadata
// keys every rail carries (see constants.WebhookMetadata*). Malformed ids
// are logged and skipped rather than failing the event; the settlement
// engines do their own fatal-vs-ignorable resolution.
func applyEventMetadata(ev *dtos.PaymentEvent, md map[string]string) {
	if purpose, ok := md[constants.WebhookMetadataPurposeKey]; ok {
		ev.Purpose = models.PaymentPurposeType(strings.ToUpper(purpose))
	}
	ev.CollectionID = parseUUIDKey(md, constants.WebhookMetadataCollectionIDKey, ev.ExternalID)
	ev.PricingTierID = parseUUIDKey(md, constants.WebhookMetadataPricingTierIDKey, ev.ExternalID)
	ev.BookingID = parseUUIDKey(md, constants.WebhookMetadataBookingIDKey, ev.ExternalID)
	ev.UserID = parseUUIDKey(md, constants.WebhookMetadataUserIDKey, ev.ExternalID)
	ev.ReferralCode = md[constants.WebhookMetadataReferralCodeKey]

	if raw, ok := md[constants.WebhookMetadataUnitIDsKey]; ok && raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				utils.Logger.Warnf("Event %s carries malformed unit id %q in metadata; skipping", ev.ExternalID, part)
				continue
			}
			ev.UnitIDs = append(ev.UnitIDs, id)
		}
	}
}

func parseUUIDKey(md map[string]string, key, externalID string) *uuid.UUID {
	raw, ok := md[key]
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.Logger.Warnf("Event %s carries malformed %s %q in metadata; ignoring", externalID, key, raw)
		return nil
	}
	return &id
}
