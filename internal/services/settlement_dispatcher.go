package services

import (
	"context"
	"fmt"

	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
)

// SettlementDispatcher routes one normalized payment event to the engine
// matching its purpose. All three rails (card, crypto, manual) funnel
// through here, so each engine only ever sees its own flow.
type SettlementDispatcher struct {
	ownership *OwnershipSettlementService
	booking   *BookingSettlementService
}

func NewSettlementDispatcher(ownership *OwnershipSettlementService, booking *BookingSettlementService) *SettlementDispatcher {
	return &SettlementDispatcher{ownership: ownership, booking: booking}
}

func (d *SettlementDispatcher) Dispatch(ctx context.Context, ev *dtos.PaymentEvent) (*dtos.SettlementResult, error) {
	switch ev.Purpose {
	case models.PaymentPurposeOwnership:
		return d.ownership.Settle(ctx, ev)
	case models.PaymentPurposeBooking:
		return d.booking.Settle(ctx, ev)
	default:
		return nil, fmt.Errorf("unknown payment purpose %q on event %s", ev.Purpose, ev.ExternalID)
	}
}
