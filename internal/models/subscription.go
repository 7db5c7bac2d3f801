package model

import "time"

type Plan struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PricePaise      int64     `json:"pricePaise"`
	BillingInterval string    `json:"billingInterval"` // monthly, yearly
	CoinBonus       int       `json:"coinBonus"`       // HealCoins offerts à l'activation
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Subscription struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"userId"`
	PlanID                 string     `json:"planId"`
	Status                 string     `json:"status"` // created, active, cancelled, expired
	RazorpaySubscriptionID *string    `json:"razorpaySubscriptionId,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"currentPeriodEnd,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

type Payment struct {
	ID                string    `json:"id"`
	UserID            *string   `json:"userId,omitempty"`
	RazorpayEventID   string    `json:"razorpayEventId"`
	RazorpayPaymentID *string   `json:"razorpayPaymentId,omitempty"`
	AmountPaise       int64     `json:"amountPaise"`
	Status            string    `json:"status"` // captured, failed
	CreatedAt         time.Time `json:"createdAt"`
}

// RazorpayWebhookEvent est le sous-ensemble du payload webhook que l'on lit
type RazorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID     string `json:"id"`
				Amount int64  `json:"amount"`
				Status string `json:"status"`
				Notes  struct {
					UserID         string `json:"userId"`
					SubscriptionID string `json:"subscriptionId"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
