package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditLicenseRequest       AuditAction = "license_request"
	AuditLicenseRevoke        AuditAction = "license_revoke"
	AuditLicenseActivate      AuditAction = "license_activate"
	AuditLicenseDeactivate    AuditAction = "license_deactivate"
	AuditLicenseExpire        AuditAction = "license_expire"
	AuditEADownload           AuditAction = "ea_download"
	AuditAdminChange          AuditAction = "admin_change"
	AuditUserLogin            AuditAction = "user_login"
	AuditPaymentConfirm       AuditAction = "payment_confirm"
	AuditPaymentFail          AuditAction = "payment_fail"
	AuditSubscriptionActivate AuditAction = "subscription_activate"
	AuditSubscriptionCancel   AuditAction = "subscription_cancel"
	AuditSubscriptionRenew    AuditAction = "subscription_renew"
	AuditSubscriptionExpire   AuditAction = "subscription_expire"
)

// AuditLog rows are written once and never changed. UserId is nil for system actions and
// after the user is deleted.
type AuditLog struct {
	Id         uuid.UUID
	UserId     *uuid.UUID
	Action     AuditAction
	ObjectType string
	ObjectId   string
	ExtraData  map[string]interface{}
	IpAddress  string
	CreatedAt  time.Time
}
