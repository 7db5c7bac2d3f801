package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/Zero-Print/zeroprint-sub006/internal/config"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := NewRazorpayService(&config.Config{
		RazorpayKeyID:         "rzp_test_key",
		RazorpayWebhookSecret: "whsec_test",
	})
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	t.Run("valid signature", func(t *testing.T) {
		require.NoError(t, svc.VerifyWebhookSignature(body, signBody("whsec_test", body)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		require.Error(t, svc.VerifyWebhookSignature(body, signBody("other_secret", body)))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signBody("whsec_test", body)
		tampered := []byte(`{"event":"payment.captured","payload":{"amount":1}}`)
		require.Error(t, svc.VerifyWebhookSignature(tampered, sig))
	})

	t.Run("missing signature", func(t *testing.T) {
		require.Error(t, svc.VerifyWebhookSignature(body, ""))
	})
}

func TestVerifyWebhookSignatureUnconfigured(t *testing.T) {
	svc := NewRazorpayService(&config.Config{})
	require.False(t, svc.IsConfigured())

	body := []byte(`{}`)
	require.Error(t, svc.VerifyWebhookSignature(body, signBody("", body)))
}
