package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/Zero-Print/zeroprint-sub006/internal/config"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service.
// Si SES_FROM_EMAIL n'est pas configuré, le service est désactivé et les
// envois deviennent des no-op (pratique en local).
func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SESFromEmail == "" {
		utils.LogWarning("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	utils.LogInfo("Email service enabled: from=%s, region=%s", cfg.SESFromEmail, cfg.AWSRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(awsCfg),
		fromEmail:  cfg.SESFromEmail,
		fromName:   cfg.SESFromName,
		appBaseURL: cfg.URL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendPasswordResetEmail sends a password reset email with a reset link
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	if !s.enabled {
		utils.LogWarning("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appBaseURL, resetToken)

	subject := "Reset Your ZeroPrint Password"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2e7d32;">Password Reset Request</h1>
		<p>Hi %s,</p>
		<p>We received a request to reset your password for your ZeroPrint account.</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #2e7d32; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
		<p><strong>This link will expire in 1 hour.</strong></p>
		<p>If you didn't request a password reset, you can safely ignore this email.</p>
	</div>
</body>
</html>
`, toName, resetLink, resetLink)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your password for your ZeroPrint account.

Click the link below to reset your password:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.
`, toName, resetLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendVerificationEmail sends an email address verification link
func (s *EmailService) SendVerificationEmail(ctx context.Context, toEmail, toName, verifyToken string) error {
	if !s.enabled {
		utils.LogWarning("Skipping email send (service disabled): verification to %s", toEmail)
		return nil
	}

	verifyLink := fmt.Sprintf("%s/auth/verify-email?token=%s", s.appBaseURL, verifyToken)

	subject := "Verify Your ZeroPrint Email"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2e7d32;">Verify your email</h1>
		<p>Hi %s,</p>
		<p>Please confirm that this is your email address to finish setting up your ZeroPrint account.</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #2e7d32; color: white; text-decoration: none; border-radius: 5px;">Verify Email</a></p>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
		<p><strong>This link will expire in 24 hours.</strong></p>
	</div>
</body>
</html>
`, toName, verifyLink, verifyLink)

	textBody := fmt.Sprintf(`Hi %s,

Please confirm that this is your email address to finish setting up your ZeroPrint account.

Verify your email:
%s

This link will expire in 24 hours.
`, toName, verifyLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		utils.LogWarning("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to ZeroPrint!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2e7d32;">Welcome to ZeroPrint!</h1>
		<p>Hi %s,</p>
		<p>Thank you for joining ZeroPrint! Start earning HealCoins by playing eco games, tracking your carbon savings and logging your daily mood.</p>
		<ul>
			<li>Play mini-games and earn HealCoins</li>
			<li>Track your carbon footprint and mental wellness</li>
			<li>Climb the leaderboards</li>
			<li>Redeem HealCoins for real rewards</li>
		</ul>
		<p><a href="%s/login" style="display: inline-block; padding: 12px 30px; background-color: #2e7d32; color: white; text-decoration: none; border-radius: 5px;">Get Started</a></p>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for joining ZeroPrint! Start earning HealCoins by playing eco games, tracking your carbon savings and logging your daily mood.

- Play mini-games and earn HealCoins
- Track your carbon footprint and mental wellness
- Climb the leaderboards
- Redeem HealCoins for real rewards

Get started: %s/login
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	utils.LogInfo("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
