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

const (
	renewalDays               = 30
	defaultReminderWindowDays = 7
)

type ISubscriptionService interface {
	ActivateSubscription(ctx context.Context, userId, planId uuid.UUID) (*entity.Subscription, error)
	Cancel(ctx context.Context, userId, subscriptionId uuid.UUID) (*dto.SubscriptionResponse, error)
	Renew(ctx context.Context, userId, subscriptionId uuid.UUID) (*dto.SubscriptionResponse, error)
	ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.SubscriptionResponse, error)
	ResolveActive(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)
	RenewalReminderSweep(ctx context.Context, now time.Time) (int, error)
	ExpireSubscriptionsSweep(ctx context.Context, now time.Time) (int, error)
}

type subscriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	notifier       INotifier
	clock          Clock
	logger         logger.ILogger
	reminderWindow int
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, notifier INotifier, reminderWindowDays int, clock Clock, log logger.ILogger) ISubscriptionService {
	if reminderWindowDays <= 0 {
		reminderWindowDays = defaultReminderWindowDays
	}
	return &subscriptionService{
		uowFactory:     uowFactory,
		notifier:       notifier,
		clock:          clock,
		logger:         log,
		reminderWindow: reminderWindowDays,
	}
}

// activateSubscription gets or creates the user's row for plan and marks it active. The
// period restarts when the row is new or has lapsed.
func activateSubscription(ctx context.Context, uow unitofwork.UnitOfWork, now time.Time, userId uuid.UUID, plan *entity.SubscriptionPlan) (*entity.Subscription, error) {
	repo := uow.SubscriptionRepository()
	sub, err := repo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ForPlan{PlanID: plan.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	if sub == nil {
		sub = &entity.Subscription{
			UserId:    userId,
			PlanId:    plan.Id,
			IsActive:  true,
			StartDate: now,
			EndDate:   plan.PeriodEnd(now),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("create subscription: %w", err)
		}
	} else {
		if !sub.IsActive || sub.Lapsed(now) {
			sub.StartDate = now
			sub.EndDate = plan.PeriodEnd(now)
		}
		sub.IsActive = true
		sub.UpdatedAt = now
		if err := repo.Update(ctx, sub); err != nil {
			return nil, fmt.Errorf("update subscription: %w", err)
		}
	}
	sub.Plan = plan

	err = recordAudit(ctx, uow, func() time.Time { return now }, AuditEntry{
		UserId:     userRef(userId),
		Action:     entity.AuditSubscriptionActivate,
		ObjectType: "Subscription",
		ObjectId:   sub.Id.String(),
		Extra:      map[string]interface{}{"plan": plan.Name},
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// activeSubscriptions lists the user's active subscriptions with plans, best first.
func activeSubscriptions(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]*entity.Subscription, error) {
	return uow.SubscriptionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.WithPlan{},
		specification.ActiveSubscriptionOrder{},
	)
}

func resolveActiveSubscription(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.Subscription, error) {
	subs, err := activeSubscriptions(ctx, uow, userId)
	if err != nil || len(subs) == 0 {
		return nil, err
	}
	return subs[0], nil
}

func toSubscriptionResponse(sub *entity.Subscription, now time.Time) *dto.SubscriptionResponse {
	res := &dto.SubscriptionResponse{
		Id:        sub.Id,
		PlanId:    sub.PlanId,
		IsActive:  sub.IsActive,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
	}
	if sub.Plan != nil {
		res.Plan = sub.Plan.Name
		res.Tier = string(sub.Plan.Tier)
	}
	if sub.EndDate != nil {
		days := sub.DaysLeft(now)
		if days < 0 {
			days = 0
		}
		res.DaysLeft = &days
	}
	return res
}

func (s *subscriptionService) ActivateSubscription(ctx context.Context, userId, planId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: planId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}

	sub, err := activateSubscription(ctx, uow, s.clock(), userId, plan)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, subscriptionId uuid.UUID) (*entity.Subscription, *entity.User, error) {
	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByID{ID: subscriptionId},
		specification.UserOwnedBy{UserID: userId},
		specification.WithPlan{},
	)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, apperror.NotFound("subscription not found")
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, nil, err
	}
	return sub, user, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId, subscriptionId uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, user, err := s.findOwned(ctx, uow, userId, subscriptionId)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive {
		return nil, apperror.InvalidState("subscription is already canceled")
	}

	now := s.clock()
	sub.IsActive = false
	sub.EndDate = &now
	sub.UpdatedAt = now
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}
	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(userId),
		Action:     entity.AuditSubscriptionCancel,
		ObjectType: "Subscription",
		ObjectId:   sub.Id.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	box := outbox{}
	box.add(subscriptionMessage(user, sub, entity.NotificationInfo, "Subscription Canceled",
		"Your subscription has been canceled.", events.SubscriptionCanceled))
	box.flush(ctx, s.notifier)

	return toSubscriptionResponse(sub, now), nil
}

// Renew reactivates an inactive subscription for a fresh 30 day period. Active
// subscriptions are returned unchanged.
func (s *subscriptionService) Renew(ctx context.Context, userId, subscriptionId uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, user, err := s.findOwned(ctx, uow, userId, subscriptionId)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if sub.IsActive {
		return toSubscriptionResponse(sub, now), nil
	}

	end := now.AddDate(0, 0, renewalDays)
	sub.IsActive = true
	sub.StartDate = now
	sub.EndDate = &end
	sub.UpdatedAt = now
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}
	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(userId),
		Action:     entity.AuditSubscriptionRenew,
		ObjectType: "Subscription",
		ObjectId:   sub.Id.String(),
		Extra:      map[string]interface{}{"end_date": end.Format(time.DateOnly)},
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	box := outbox{}
	box.add(subscriptionMessage(user, sub, entity.NotificationSuccess, "Subscription Renewed",
		fmt.Sprintf("Your subscription has been renewed until %s.", end.Format(time.DateOnly)), events.SubscriptionRenewed))
	box.flush(ctx, s.notifier)

	return toSubscriptionResponse(sub, now), nil
}

func (s *subscriptionService) ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.WithPlan{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	res := make([]*dto.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, toSubscriptionResponse(sub, now))
	}
	return res, nil
}

func (s *subscriptionService) ResolveActive(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	return resolveActiveSubscription(ctx, s.uowFactory.NewUnitOfWork(ctx), userId)
}

// RenewalReminderSweep notifies owners of active subscriptions ending within the window.
func (s *subscriptionService) RenewalReminderSweep(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.EndingBetween{From: now, To: now.AddDate(0, 0, s.reminderWindow)},
		specification.WithPlan{},
	)
	if err != nil {
		return 0, err
	}

	box := outbox{}
	for _, sub := range subs {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
		if err != nil {
			return 0, err
		}
		days := sub.DaysLeft(now)
		box.add(subscriptionMessage(user, sub, entity.NotificationWarning, "Subscription Expiring Soon",
			fmt.Sprintf("Your subscription expires in %d day(s), on %s. Renew now to keep access.", days, sub.EndDate.Format(time.DateOnly)),
			events.SubscriptionExpiring))
	}
	box.flush(ctx, s.notifier)

	s.logger.Info("SCHEDULER", "Renewal reminders sent", map[string]interface{}{"count": len(subs)})
	return len(subs), nil
}

// ExpireSubscriptionsSweep deactivates lapsed subscriptions one row at a time. A row that
// another sweep already flipped is skipped without a second notification.
func (s *subscriptionService) ExpireSubscriptionsSweep(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.EndedBefore{Now: now},
		specification.WithPlan{},
	)
	if err != nil {
		return 0, err
	}

	expired := 0
	box := outbox{}
	for _, sub := range subs {
		ok, err := s.expireOne(ctx, sub.Id, sub.UserId, now)
		if err != nil {
			s.logger.Error("SCHEDULER", "Failed to expire subscription", map[string]interface{}{
				"subscription_id": sub.Id.String(),
				"error":           err.Error(),
			})
			continue
		}
		if !ok {
			continue
		}
		expired++
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
		if err != nil {
			return expired, err
		}
		box.add(subscriptionMessage(user, sub, entity.NotificationWarning, "Subscription Expired",
			"Your subscription has expired. Renew it to regain access.", events.SubscriptionExpired))
	}
	box.flush(ctx, s.notifier)
	return expired, nil
}

func (s *subscriptionService) expireOne(ctx context.Context, id, userId uuid.UUID, now time.Time) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	ok, err := uow.SubscriptionRepository().DeactivateIfActive(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	err = recordAudit(ctx, uow, func() time.Time { return now }, AuditEntry{
		UserId:     userRef(userId),
		Action:     entity.AuditSubscriptionExpire,
		ObjectType: "Subscription",
		ObjectId:   id.String(),
	})
	if err != nil {
		return false, err
	}
	return true, uow.Commit()
}

func subscriptionMessage(user *entity.User, sub *entity.Subscription, kind entity.NotificationType, title, message, event string) Outbound {
	msg := Outbound{
		UserId:  sub.UserId,
		Type:    kind,
		Title:   title,
		Message: message,
		Event:   event,
		Metadata: map[string]interface{}{
			"subscription_id": sub.Id.String(),
		},
	}
	if sub.Plan != nil {
		msg.Metadata["plan"] = sub.Plan.Name
	}
	if user != nil {
		msg.Email = user.Email
	}
	return msg
}
