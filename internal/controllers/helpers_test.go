package controllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
)

func TestApplyEventMetadataFillsEvent(t *testing.T) {
	collectionID := uuid.New()
	tierID := uuid.New()
	userID := uuid.New()
	unitA := uuid.New()
	unitB := uuid.New()

	ev := &dtos.PaymentEvent{ExternalID: "cs_test_md", Purpose: models.PaymentPurposeOwnership}
	applyEventMetadata(ev, map[string]string{
		constants.WebhookMetadataPurposeKey:       "booking",
		constants.WebhookMetadataCollectionIDKey:  collectionID.String(),
		constants.WebhookMetadataPricingTierIDKey: tierID.String(),
		constants.WebhookMetadataUserIDKey:        userID.String(),
		constants.WebhookMetadataReferralCodeKey:  "REEF10",
		constants.WebhookMetadataUnitIDsKey:       unitA.String() + ", " + unitB.String(),
	})

	require.Equal(t, models.PaymentPurposeBooking, ev.Purpose, "metadata purpose overrides the rail default, case-insensitively")
	require.Equal(t, collectionID, *ev.CollectionID)
	require.Equal(t, tierID, *ev.PricingTierID)
	require.Equal(t, userID, *ev.UserID)
	require.Equal(t, "REEF10", ev.ReferralCode)
	require.Equal(t, []uuid.UUID{unitA, unitB}, ev.UnitIDs)
	require.Nil(t, ev.BookingID)
}

func TestApplyEventMetadataSkipsMalformedIDs(t *testing.T) {
	unitOK := uuid.New()

	ev := &dtos.PaymentEvent{ExternalID: "cs_test_bad", Purpose: models.PaymentPurposeOwnership}
	applyEventMetadata(ev, map[string]string{
		constants.WebhookMetadataCollectionIDKey: "not-a-uuid",
		constants.WebhookMetadataUnitIDsKey:      "garbage," + unitOK.String(),
	})

	// A malformed id is dropped, not fatal; the engines decide what is
	// missing-but-required.
	require.Nil(t, ev.CollectionID)
	require.Equal(t, []uuid.UUID{unitOK}, ev.UnitIDs)
	require.Equal(t, models.PaymentPurposeOwnership, ev.Purpose)
}

func TestApplyEventMetadataEmpty(t *testing.T) {
	ev := &dtos.PaymentEvent{ExternalID: "cs_test_empty", Purpose: models.PaymentPurposeOwnership}
	applyEventMetadata(ev, map[string]string{})

	require.Equal(t, models.PaymentPurposeOwnership, ev.Purpose)
	require.Nil(t, ev.CollectionID)
	require.Nil(t, ev.PricingTierID)
	require.Nil(t, ev.BookingID)
	require.Nil(t, ev.UserID)
	require.Empty(t, ev.UnitIDs)
}
