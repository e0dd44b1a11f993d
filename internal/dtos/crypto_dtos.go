package dtos

// CryptoWebhookEnvelope is the Coinbase-Commerce-shaped webhook body. Only
// the fields the settlement engine needs are modeled.
type CryptoWebhookEnvelope struct {
	ID    string             `json:"id"`
	Event CryptoWebhookEvent `json:"event"`
}

type CryptoWebhookEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data CryptoChargeData `json:"data"`
}

type CryptoChargeData struct {
	Code     string            `json:"code"` // charge code, the external id
	Metadata map[string]string `json:"metadata"`
	Pricing  CryptoPricing     `json:"pricing"`
}

type CryptoPricing struct {
	Local CryptoMoney `json:"local"`
}

type CryptoMoney struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
