package events

import "time"

// Domain event codes published on the bus as events.<CODE>.
const (
	LicenseIssued         = "LICENSE_ISSUED"
	LicenseRevoked        = "LICENSE_REVOKED"
	LicenseExpired        = "LICENSE_EXPIRED"
	PaymentConfirmed      = "PAYMENT_CONFIRMED"
	PaymentFailed         = "PAYMENT_FAILED"
	SubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	SubscriptionCanceled  = "SUBSCRIPTION_CANCELED"
	SubscriptionRenewed   = "SUBSCRIPTION_RENEWED"
	SubscriptionExpiring  = "SUBSCRIPTION_EXPIRING"
	SubscriptionExpired   = "SUBSCRIPTION_EXPIRED"
	ReferralRewarded      = "REFERRAL_REWARDED"
	ShareMilestone        = "SHARE_MILESTONE"
	UserRegistered        = "USER_REGISTERED"
	UserStatusChanged     = "USER_STATUS_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
