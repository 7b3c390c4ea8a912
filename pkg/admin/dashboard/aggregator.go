package dashboard

import (
	"context"
	"fmt"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics and log reading
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().Count(ctx, specification.ActiveUsers{})
	if err != nil {
		return nil, err
	}

	pending, err := uow.SubscriptionRepository().CountPayments(ctx, specification.ByStatus{Status: string(entity.PaymentStatusPending)})
	if err != nil {
		return nil, err
	}

	confirmed, err := uow.SubscriptionRepository().CountPayments(ctx, specification.ByStatus{Status: string(entity.PaymentStatusConfirmed)})
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardStats{
		TotalUsers:        totalUsers,
		ActiveUsers:       activeUsers,
		PendingPayments:   pending,
		ConfirmedPayments: confirmed,
	}, nil
}

// GetSystemLogs pages through the application log file, newest first.
func (a *Aggregator) GetSystemLogs(loggerSvc logger.ILogger, page, limit int, level string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	logs, err := loggerSvc.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (a *Aggregator) GetLogDetail(loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, apperror.NotFound("log entry not found")
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		},
		Details: l.Details,
	}, nil
}
