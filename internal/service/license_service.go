package service

import (
	"context"
	"fmt"
	"time"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/events"

	"github.com/google/uuid"
)

var defaultRuntimeSettings = dto.RuntimeSettings{MaxTrades: 5, RiskLevel: "medium"}

type ILicenseService interface {
	IssueLicense(ctx context.Context, userId, eaId uuid.UUID) (*entity.LicenseKey, error)
	Validate(ctx context.Context, key string, eaId uuid.UUID, ip string) (*dto.LicenseValidationResponse, error)
	Activate(ctx context.Context, key string) (*entity.LicenseKey, error)
	Deactivate(ctx context.Context, key string) (*entity.LicenseKey, error)
	RevokeByUser(ctx context.Context, userId, licenseId uuid.UUID, ip string) error
	ExpireSweep(ctx context.Context, now time.Time) (int, error)
	ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.LicenseResponse, error)
	GetRuntimeConfig(ctx context.Context, key string) (*dto.LicenseConfigResponse, error)
	RecordUsage(ctx context.Context, key, ip string, payload map[string]interface{}) (*dto.UsageResponse, error)
}

type licenseService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   INotifier
	clock      Clock
	logger     logger.ILogger
}

func NewLicenseService(uowFactory unitofwork.RepositoryFactory, notifier INotifier, clock Clock, log logger.ILogger) ILicenseService {
	return &licenseService{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     log,
	}
}

// eligibleSubscription picks the best active subscription whose plan unlocks ea.
func eligibleSubscription(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, ea *entity.ExpertAdvisor) (*entity.Subscription, error) {
	subs, err := activeSubscriptions(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if ea.IsEligiblePlan(sub.PlanId) {
			return sub, nil
		}
	}
	return nil, nil
}

// IssueLicense returns the user's key for the expert advisor, creating it on first request.
// A concurrent duplicate request reads back the row the other one inserted.
func (s *licenseService) IssueLicense(ctx context.Context, userId, eaId uuid.UUID) (*entity.LicenseKey, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	licenseRepo := uow.LicenseRepository()
	ea, err := licenseRepo.FindExpertAdvisor(ctx, specification.ByID{ID: eaId})
	if err != nil {
		return nil, err
	}
	if ea == nil {
		return nil, apperror.NotFound("expert advisor not found")
	}

	sub, err := eligibleSubscription(ctx, uow, userId, ea)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.New(apperror.ErrEligibilityDenied, "no active subscription covers this expert advisor")
	}

	now := s.clock()
	created, err := licenseRepo.CreateIfAbsent(ctx, &entity.LicenseKey{
		Key:             uuid.NewString(),
		UserId:          userId,
		ExpertAdvisorId: ea.Id,
		PlanId:          sub.PlanId,
		Status:          entity.LicenseStatusActive,
		CreatedAt:       now,
		ExpiresAt:       sub.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("issue license: %w", err)
	}

	license, err := licenseRepo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ForExpertAdvisor{ExpertAdvisorID: ea.Id},
		specification.WithLicenseRelations{},
	)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, fmt.Errorf("issue license: row missing after insert")
	}

	var box outbox
	if created {
		planName := ""
		if sub.Plan != nil {
			planName = sub.Plan.Name
		}
		err = recordAudit(ctx, uow, s.clock, AuditEntry{
			UserId:     userRef(userId),
			Action:     entity.AuditLicenseRequest,
			ObjectType: "LicenseKey",
			ObjectId:   license.Id.String(),
			Extra:      map[string]interface{}{"ea": ea.Name, "plan": planName},
		})
		if err != nil {
			return nil, err
		}
		box.add(licenseMessage(license, entity.NotificationSuccess, "License Issued",
			fmt.Sprintf("Your license for %s is ready.", ea.Name), events.LicenseIssued))
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	box.flush(ctx, s.notifier)
	return license, nil
}

func (s *licenseService) findByKey(ctx context.Context, uow unitofwork.UnitOfWork, key string) (*entity.LicenseKey, error) {
	license, err := uow.LicenseRepository().FindOne(ctx,
		specification.ByKey{Key: key},
		specification.WithLicenseRelations{},
	)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, apperror.NotFound("license not found")
	}
	return license, nil
}

// Validate reports the stored status only; expiry is applied by the sweep.
func (s *licenseService) Validate(ctx context.Context, key string, eaId uuid.UUID, ip string) (*dto.LicenseValidationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	license, err := s.findByKey(ctx, uow, key)
	if err != nil {
		return nil, err
	}
	if license.ExpertAdvisorId != eaId {
		return nil, apperror.NotFound("license not found")
	}

	if err := uow.LicenseRepository().Touch(ctx, license.Id, s.clock(), ip); err != nil {
		s.logger.Warn("LICENSE", "Failed to stamp license usage", map[string]interface{}{
			"license_id": license.Id.String(),
			"error":      err.Error(),
		})
	}

	res := &dto.LicenseValidationResponse{
		Valid:     license.IsActive(),
		Status:    string(license.Status),
		ExpiresAt: license.ExpiresAt,
	}
	if license.User != nil {
		res.User = license.User.Username
	}
	if license.ExpertAdvisor != nil {
		res.ExpertAdvisor = license.ExpertAdvisor.Name
	}
	if license.Plan != nil {
		res.Plan = license.Plan.Name
	}
	return res, nil
}

func (s *licenseService) Activate(ctx context.Context, key string) (*entity.LicenseKey, error) {
	return s.transition(ctx, key, entity.LicenseStatusActive)
}

func (s *licenseService) Deactivate(ctx context.Context, key string) (*entity.LicenseKey, error) {
	return s.transition(ctx, key, entity.LicenseStatusRevoked)
}

// transition moves a license into target. Calling it again for the same target changes
// nothing and records nothing.
func (s *licenseService) transition(ctx context.Context, key string, target entity.LicenseStatus) (*entity.LicenseKey, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	license, err := s.findByKey(ctx, uow, key)
	if err != nil {
		return nil, err
	}
	if license.Status == target {
		return license, nil
	}

	now := s.clock()
	action := entity.AuditLicenseActivate
	license.Status = target
	if target == entity.LicenseStatusActive {
		license.ActivatedAt = &now
	} else {
		license.DeactivatedAt = &now
		action = entity.AuditLicenseDeactivate
	}
	if err := uow.LicenseRepository().Update(ctx, license); err != nil {
		return nil, err
	}

	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(license.UserId),
		Action:     action,
		ObjectType: "LicenseKey",
		ObjectId:   license.Id.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return license, nil
}

func (s *licenseService) RevokeByUser(ctx context.Context, userId, licenseId uuid.UUID, ip string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	license, err := uow.LicenseRepository().FindOne(ctx,
		specification.ByID{ID: licenseId},
		specification.UserOwnedBy{UserID: userId},
		specification.WithLicenseRelations{},
	)
	if err != nil {
		return err
	}
	if license == nil {
		return apperror.NotFound("license not found")
	}

	if license.IsActive() {
		now := s.clock()
		license.Status = entity.LicenseStatusRevoked
		license.DeactivatedAt = &now
		if err := uow.LicenseRepository().Update(ctx, license); err != nil {
			return err
		}
	}

	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(userId),
		Action:     entity.AuditLicenseRevoke,
		ObjectType: "LicenseKey",
		ObjectId:   license.Id.String(),
		IpAddress:  ip,
	})
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	box := outbox{}
	box.add(licenseMessage(license, entity.NotificationInfo, "License Revoked",
		"Your license key has been revoked.", events.LicenseRevoked))
	box.flush(ctx, s.notifier)
	return nil
}

// ExpireSweep revokes every active license past its expiry. Each row is flipped by its own
// conditional update, so overlapping sweeps expire and notify a license once.
func (s *licenseService) ExpireSweep(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.uowFactory.NewUnitOfWork(ctx).LicenseRepository().FindExpiredIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	box := outbox{}
	for _, id := range ids {
		license, err := s.expireOne(ctx, id, now)
		if err != nil {
			s.logger.Error("SCHEDULER", "Failed to expire license", map[string]interface{}{
				"license_id": id.String(),
				"error":      err.Error(),
			})
			continue
		}
		if license == nil {
			continue
		}
		expired++
		box.add(licenseMessage(license, entity.NotificationWarning, "Your License Has Expired",
			"Your license key has expired. Renew your subscription to continue using the expert advisor.",
			events.LicenseExpired))
	}
	box.flush(ctx, s.notifier)

	if expired > 0 {
		s.logger.Info("SCHEDULER", "Licenses expired", map[string]interface{}{"count": expired})
	}
	return expired, nil
}

func (s *licenseService) expireOne(ctx context.Context, id uuid.UUID, now time.Time) (*entity.LicenseKey, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.LicenseRepository()
	ok, err := repo.ExpireIfActive(ctx, id, now)
	if err != nil || !ok {
		return nil, err
	}
	license, err := repo.FindOne(ctx, specification.ByID{ID: id}, specification.WithLicenseRelations{})
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, fmt.Errorf("expired license %s vanished", id)
	}

	err = recordAudit(ctx, uow, func() time.Time { return now }, AuditEntry{
		UserId:     userRef(license.UserId),
		Action:     entity.AuditLicenseExpire,
		ObjectType: "LicenseKey",
		ObjectId:   license.Id.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return license, nil
}

func (s *licenseService) ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.LicenseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	licenses, err := uow.LicenseRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.WithLicenseRelations{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LicenseResponse, 0, len(licenses))
	for _, l := range licenses {
		res = append(res, ToLicenseResponse(l))
	}
	return res, nil
}

// ToLicenseResponse is the single projection of a license for API responses.
func ToLicenseResponse(l *entity.LicenseKey) *dto.LicenseResponse {
	res := &dto.LicenseResponse{
		Id:              l.Id,
		Key:             l.Key,
		ExpertAdvisorId: l.ExpertAdvisorId,
		Status:          string(l.Status),
		CreatedAt:       l.CreatedAt,
		ActivatedAt:     l.ActivatedAt,
		ExpiresAt:       l.ExpiresAt,
	}
	if l.ExpertAdvisor != nil {
		res.ExpertAdvisor = l.ExpertAdvisor.Name
	}
	if l.Plan != nil {
		res.Plan = l.Plan.Name
	}
	return res
}

func (s *licenseService) GetRuntimeConfig(ctx context.Context, key string) (*dto.LicenseConfigResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	license, err := s.findByKey(ctx, uow, key)
	if err != nil {
		return nil, err
	}
	if !license.IsActive() {
		return nil, apperror.Forbidden("license is not active")
	}

	res := &dto.LicenseConfigResponse{Settings: defaultRuntimeSettings}
	if license.ExpertAdvisor != nil {
		res.ExpertAdvisor = license.ExpertAdvisor.Name
	}
	if license.Plan != nil {
		res.Plan = license.Plan.Name
	}
	if license.User != nil {
		res.User = license.User.Username
	}
	return res, nil
}

func (s *licenseService) RecordUsage(ctx context.Context, key, ip string, payload map[string]interface{}) (*dto.UsageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	license, err := s.findByKey(ctx, uow, key)
	if err != nil {
		return nil, err
	}
	if !license.IsActive() {
		return nil, apperror.Forbidden("license is not active")
	}

	now := s.clock()
	err = uow.LicenseRepository().CreateUsage(ctx, &entity.LicenseUsage{
		LicenseId: license.Id,
		Ip:        ip,
		Payload:   payload,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := uow.LicenseRepository().Touch(ctx, license.Id, now, ip); err != nil {
		return nil, err
	}
	return &dto.UsageResponse{Received: true}, nil
}

func licenseMessage(l *entity.LicenseKey, kind entity.NotificationType, title, message, event string) Outbound {
	msg := Outbound{
		UserId:  l.UserId,
		Type:    kind,
		Title:   title,
		Message: message,
		Event:   event,
		Metadata: map[string]interface{}{
			"license_id": l.Id.String(),
		},
	}
	if l.ExpertAdvisor != nil {
		msg.Metadata["ea"] = l.ExpertAdvisor.Name
	}
	if l.User != nil {
		msg.Email = l.User.Email
	}
	return msg
}
