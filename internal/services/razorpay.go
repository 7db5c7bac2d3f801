package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Zero-Print/zeroprint-sub006/internal/config"
)

// RazorpayService vérifie les webhooks Razorpay.
// On ne crée pas les commandes côté serveur ici: le checkout est géré par
// le front, le backend ne fait que consommer les webhooks signés.
type RazorpayService struct {
	keyID         string
	webhookSecret string
}

// NewRazorpayService creates a new Razorpay service instance
func NewRazorpayService(cfg *config.Config) *RazorpayService {
	return &RazorpayService{
		keyID:         cfg.RazorpayKeyID,
		webhookSecret: cfg.RazorpayWebhookSecret,
	}
}

// IsConfigured indique si le secret webhook est renseigné
func (s *RazorpayService) IsConfigured() bool {
	return s.webhookSecret != ""
}

// VerifyWebhookSignature vérifie la signature HMAC-SHA256 du corps brut
// du webhook contre le header X-Razorpay-Signature
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) error {
	if s.webhookSecret == "" {
		return fmt.Errorf("razorpay webhook secret is not configured")
	}
	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("invalid webhook signature")
	}
	return nil
}
