// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"fmt"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/events"

	"github.com/google/uuid"
)

type IPaymentService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitPaymentRequest) (*dto.PaymentResponse, error)
	Confirm(ctx context.Context, paymentId, adminId uuid.UUID) (*dto.PaymentResponse, error)
	Fail(ctx context.Context, paymentId, adminId uuid.UUID, reason string) (*dto.PaymentResponse, error)
	ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *rewardEngine
	notifier   INotifier
	clock      Clock
	logger     logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, notifier INotifier, windows []XPWindow, clock Clock, log logger.ILogger) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		engine:     newRewardEngine(clock, windows, log),
		notifier:   notifier,
		clock:      clock,
		logger:     log,
	}
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	res := &dto.PaymentResponse{
		Id:            p.Id,
		PlanId:        p.PlanId,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionId: p.TransactionId,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		ConfirmedAt:   p.ConfirmedAt,
	}
	if p.Plan != nil {
		res.Plan = p.Plan.Name
	}
	return res
}

// Submit records a manual payment claim for review. The amount defaults to the plan price.
func (s *paymentService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitPaymentRequest) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SubscriptionRepository()

	plan, err := repo.FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, apperror.NotFound("plan not found")
	}

	amount := plan.Price
	if req.Amount != nil {
		amount = *req.Amount
	}

	now := s.clock()
	payment := &entity.Payment{
		UserId:         userId,
		PlanId:         plan.Id,
		Plan:           plan,
		Amount:         amount,
		Method:         entity.PaymentMethod(req.Method),
		Status:         entity.PaymentStatusPending,
		TransactionId:  req.TransactionId,
		ProofOfPayment: req.ProofOfPayment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.logger.Info("PAYMENT", "Payment submitted", map[string]interface{}{
		"payment_id": payment.Id.String(),
		"user_id":    userId.String(),
		"method":     req.Method,
	})
	return toPaymentResponse(payment), nil
}

func (s *paymentService) findPayment(ctx context.Context, uow unitofwork.UnitOfWork, paymentId uuid.UUID) (*entity.Payment, error) {
	payment, err := uow.SubscriptionRepository().FindOnePayment(ctx,
		specification.ByID{ID: paymentId},
		specification.WithPlan{},
	)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("payment not found")
	}
	return payment, nil
}

// Confirm moves a pending payment to confirmed and, in the same transaction, activates the
// subscription, renews the user's licenses and grants payment rewards. Confirming twice
// returns the confirmed payment unchanged.
func (s *paymentService) Confirm(ctx context.Context, paymentId, adminId uuid.UUID) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	payment, err := s.findPayment(ctx, uow, paymentId)
	if err != nil {
		return nil, err
	}
	switch payment.Status {
	case entity.PaymentStatusConfirmed:
		return toPaymentResponse(payment), nil
	case entity.PaymentStatusFailed:
		return nil, apperror.InvalidState("payment has already failed")
	}

	now := s.clock()
	repo := uow.SubscriptionRepository()
	ok, err := repo.TransitionPayment(ctx, payment.Id, entity.PaymentStatusPending, entity.PaymentStatusConfirmed,
		map[string]interface{}{"confirmed_at": now, "updated_at": now})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another reviewer.
		current, err := s.findPayment(ctx, uow, paymentId)
		if err != nil {
			return nil, err
		}
		if current.Status == entity.PaymentStatusConfirmed {
			return toPaymentResponse(current), nil
		}
		return nil, apperror.InvalidState("payment is no longer pending")
	}
	payment.Status = entity.PaymentStatusConfirmed
	payment.ConfirmedAt = &now

	plan := payment.Plan
	if plan == nil {
		if plan, err = repo.FindOnePlan(ctx, specification.ByID{ID: payment.PlanId}); err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, apperror.NotFound("plan not found")
		}
	}

	sub, err := activateSubscription(ctx, uow, now, payment.UserId, plan)
	if err != nil {
		return nil, err
	}
	if _, err := uow.LicenseRepository().RenewActiveForUser(ctx, payment.UserId, sub.EndDate); err != nil {
		return nil, err
	}
	if err := s.engine.confirmPaymentRewards(ctx, uow, payment.UserId); err != nil {
		return nil, err
	}

	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(payment.UserId),
		Action:     entity.AuditPaymentConfirm,
		ObjectType: "Payment",
		ObjectId:   payment.Id.String(),
		Extra: map[string]interface{}{
			"plan":       plan.Name,
			"amount":     payment.Amount,
			"confirm_by": adminId.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payment.UserId})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	box := outbox{}
	box.add(paymentMessage(user, payment, entity.NotificationSuccess, "Payment Confirmed",
		fmt.Sprintf("Your payment for %s has been confirmed. Your subscription is active.", plan.Name),
		events.PaymentConfirmed))
	box.flush(ctx, s.notifier)

	return toPaymentResponse(payment), nil
}

func (s *paymentService) Fail(ctx context.Context, paymentId, adminId uuid.UUID, reason string) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	payment, err := s.findPayment(ctx, uow, paymentId)
	if err != nil {
		return nil, err
	}
	if payment.Status == entity.PaymentStatusFailed {
		return toPaymentResponse(payment), nil
	}

	now := s.clock()
	ok, err := uow.SubscriptionRepository().TransitionPayment(ctx, payment.Id, entity.PaymentStatusPending, entity.PaymentStatusFailed,
		map[string]interface{}{"failure_reason": reason, "updated_at": now})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.InvalidState("only pending payments can fail")
	}
	payment.Status = entity.PaymentStatusFailed
	payment.FailureReason = reason

	err = recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(payment.UserId),
		Action:     entity.AuditPaymentFail,
		ObjectType: "Payment",
		ObjectId:   payment.Id.String(),
		Extra:      map[string]interface{}{"reason": reason, "failed_by": adminId.String()},
	})
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payment.UserId})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	message := "Your payment could not be verified."
	if reason != "" {
		message += " Reason: " + reason
	}
	box := outbox{}
	box.add(paymentMessage(user, payment, entity.NotificationError, "Payment Failed", message, events.PaymentFailed))
	box.flush(ctx, s.notifier)

	return toPaymentResponse(payment), nil
}

func (s *paymentService) ListForUser(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payments, err := uow.SubscriptionRepository().FindAllPayments(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.WithPlan{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		res = append(res, toPaymentResponse(p))
	}
	return res, nil
}

func paymentMessage(user *entity.User, p *entity.Payment, kind entity.NotificationType, title, message, event string) Outbound {
	msg := Outbound{
		UserId:  p.UserId,
		Type:    kind,
		Title:   title,
		Message: message,
		Event:   event,
		Metadata: map[string]interface{}{
			"payment_id": p.Id.String(),
			"amount":     p.Amount,
		},
	}
	if user != nil {
		msg.Email = user.Email
	}
	return msg
}
