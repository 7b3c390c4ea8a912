package service

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAccessService interface {
	CanAccess(ctx context.Context, principal *entity.Principal, required entity.Tier) (bool, error)
	ResolveTier(ctx context.Context, userId uuid.UUID) (entity.Tier, error)
	AuthorizeDownload(ctx context.Context, principal *entity.Principal, fileId uuid.UUID, ip string) (*entity.EAFile, error)
}

type accessService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      Clock
}

func NewAccessService(uowFactory unitofwork.RepositoryFactory, clock Clock) IAccessService {
	return &accessService{uowFactory: uowFactory, clock: clock}
}

func resolveTier(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (entity.Tier, error) {
	sub, err := resolveActiveSubscription(ctx, uow, userId)
	if err != nil {
		return entity.TierFree, err
	}
	if sub == nil || sub.Plan == nil || !sub.Plan.Tier.Valid() {
		return entity.TierFree, nil
	}
	return sub.Plan.Tier, nil
}

// canAccess: anonymous callers see free content only, staff see everything, everyone
// else gets the tier of their active subscription.
func canAccess(ctx context.Context, uow unitofwork.UnitOfWork, principal *entity.Principal, required entity.Tier) (bool, error) {
	if !required.Valid() {
		return false, apperror.Validation("unknown access level")
	}
	if principal == nil {
		return required == entity.TierFree, nil
	}
	if principal.IsPrivileged() {
		return true, nil
	}
	tier, err := resolveTier(ctx, uow, principal.UserId)
	if err != nil {
		return false, err
	}
	return tier.Covers(required), nil
}

func (s *accessService) CanAccess(ctx context.Context, principal *entity.Principal, required entity.Tier) (bool, error) {
	return canAccess(ctx, s.uowFactory.NewUnitOfWork(ctx), principal, required)
}

func (s *accessService) ResolveTier(ctx context.Context, userId uuid.UUID) (entity.Tier, error) {
	return resolveTier(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
}

// AuthorizeDownload checks the caller against the file's expert advisor. Premium advisors
// need a paid active subscription; any signed-in user may download the rest.
func (s *accessService) AuthorizeDownload(ctx context.Context, principal *entity.Principal, fileId uuid.UUID, ip string) (*entity.EAFile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	file, err := uow.LicenseRepository().FindFile(ctx, specification.ByID{ID: fileId})
	if err != nil {
		return nil, err
	}
	if file == nil || file.ExpertAdvisor == nil {
		return nil, apperror.NotFound("file not found")
	}
	if principal == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	ea := file.ExpertAdvisor
	if ea.IsPremium && !principal.IsPrivileged() {
		paid, err := hasPaidSubscription(ctx, uow, principal.UserId)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, apperror.Forbidden("a paid subscription is required for this download")
		}
	}

	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(principal.UserId),
		Action:     entity.AuditEADownload,
		ObjectType: "EAFile",
		ObjectId:   file.Id.String(),
		Extra:      map[string]interface{}{"ip": ip, "ea": ea.Name, "version": file.Version},
		IpAddress:  ip,
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return file, nil
}

func hasPaidSubscription(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (bool, error) {
	subs, err := activeSubscriptions(ctx, uow, userId)
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		if sub.Plan != nil && sub.Plan.Price > 0 {
			return true, nil
		}
	}
	return false, nil
}
