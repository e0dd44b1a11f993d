package services

import (
	"sync"

	"github.com/ownstays/settlement-service/internal/utils"
	stripe "github.com/stripe/stripe-go/v82"
)

// StripeWebhookCheckService tracks self-issued payment_intent.created
// events so a deploy can verify the Stripe endpoint end to end before
// real settlements ride it. Entries live in memory only; a restart just
// means re-running the check.
type StripeWebhookCheckService struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewStripeWebhookCheckService() *StripeWebhookCheckService {
	return &StripeWebhookCheckService{pending: make(map[string]struct{})}
}

// HandlePaymentIntentCreated records a check event delivered by Stripe.
func (s *StripeWebhookCheckService) HandlePaymentIntentCreated(eventID string, pi *stripe.PaymentIntent) {
	s.mu.Lock()
	s.pending[eventID] = struct{}{}
	s.mu.Unlock()
	utils.Logger.Infof("Webhook check: captured payment_intent.created event %s (intent %s)", eventID, pi.ID)
}

// ConsumeWebhookCheckEvent reports whether the event arrived and removes
// it, so each check id answers positively at most once.
func (s *StripeWebhookCheckService) ConsumeWebhookCheckEvent(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[eventID]; !ok {
		return false
	}
	delete(s.pending, eventID)
	return true
}
