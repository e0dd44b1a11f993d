package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/ownstays/settlement-service/internal/utils"
)

const AppName = "settlement-service"

type Config struct {
	AppName             string
	AppPort             string
	AppUrl              string
	Env                 string
	DBUrl               string
	StripeSecretKey     string
	StripeWebhookSecret string
	CryptoWebhookSecret string
	RSAPublicKey        *rsa.PublicKey
}

func LoadConfig() *Config {
	// .env is a dev convenience; deployed environments inject real env vars.
	if err := godotenv.Load(); err == nil {
		utils.Logger.Info("Loaded environment from .env file")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		utils.Logger.Fatal("STRIPE_SECRET_KEY env var is missing")
	}
	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if stripeWebhookSecret == "" {
		utils.Logger.Fatal("STRIPE_WEBHOOK_SECRET env var is missing")
	}
	cryptoWebhookSecret := os.Getenv("CRYPTO_WEBHOOK_SECRET")
	if cryptoWebhookSecret == "" {
		utils.Logger.Fatal("CRYPTO_WEBHOOK_SECRET env var is missing")
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubKey, err := decodeRSAPublicKey(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not a valid RSA public key")
	}

	return &Config{
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		Env:                 env,
		DBUrl:               dbURL,
		StripeSecretKey:     stripeKey,
		StripeWebhookSecret: stripeWebhookSecret,
		CryptoWebhookSecret: cryptoWebhookSecret,
		RSAPublicKey:        pubKey,
	}
}

func decodeRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKIX public key: %w", err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("key is not RSA")
	}
	return pub, nil
}
