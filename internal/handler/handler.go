package handler

import (
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/config"
	"github.com/Zero-Print/zeroprint-sub006/internal/services"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// Services partagés par les handlers, initialisés au démarrage
var (
	cloudinarySvc *services.CloudinaryService
	emailSvc      *services.EmailService
	razorpaySvc   *services.RazorpayService
)

// InitServices initialise les services externes des handlers.
// Cloudinary et SES sont optionnels: une configuration absente désactive
// la fonctionnalité correspondante sans empêcher le démarrage.
func InitServices(cfg *config.Config) {
	var err error

	cloudinarySvc, err = services.NewCloudinaryService(cfg)
	if err != nil {
		utils.LogWarning("Cloudinary disabled: %v", err)
		cloudinarySvc = nil
	}

	emailSvc, err = services.NewEmailService(cfg)
	if err != nil {
		utils.LogWarning("Email service disabled: %v", err)
		emailSvc = nil
	}

	razorpaySvc = services.NewRazorpayService(cfg)
	if !razorpaySvc.IsConfigured() {
		utils.LogWarning("Razorpay webhook secret not configured, webhooks will be rejected")
	}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
