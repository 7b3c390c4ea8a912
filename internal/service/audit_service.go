package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultAuditLimit = 100

// AuditEntry is the input of a trail record. UserId nil means a system action.
type AuditEntry struct {
	UserId     *uuid.UUID
	Action     entity.AuditAction
	ObjectType string
	ObjectId   string
	Extra      map[string]interface{}
	IpAddress  string
}

type IAuditService interface {
	Record(ctx context.Context, entry AuditEntry) error
	ListForUser(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AuditLogResponse, error)
	ExportCSV(ctx context.Context, userId uuid.UUID, w io.Writer) error
}

type auditService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      Clock
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory, clock Clock) IAuditService {
	return &auditService{uowFactory: uowFactory, clock: clock}
}

// recordAudit appends inside the caller's unit of work so the entry commits or rolls back
// with the change it describes.
func recordAudit(ctx context.Context, uow unitofwork.UnitOfWork, clock Clock, e AuditEntry) error {
	entry := &entity.AuditLog{
		UserId:     e.UserId,
		Action:     e.Action,
		ObjectType: e.ObjectType,
		ObjectId:   e.ObjectId,
		ExtraData:  e.Extra,
		IpAddress:  e.IpAddress,
		CreatedAt:  clock(),
	}
	if err := uow.AuditRepository().Create(ctx, entry); err != nil {
		return fmt.Errorf("record audit %s: %w", e.Action, err)
	}
	return nil
}

func userRef(id uuid.UUID) *uuid.UUID {
	return &id
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return recordAudit(ctx, uow, s.clock, entry)
}

func (s *auditService) ListForUser(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.AuditLogResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.AuditRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.AuditLogResponse{
			Id:         e.Id,
			Action:     string(e.Action),
			ObjectType: e.ObjectType,
			ObjectId:   e.ObjectId,
			ExtraData:  e.ExtraData,
			IpAddress:  e.IpAddress,
			CreatedAt:  e.CreatedAt,
		})
	}
	return res, nil
}

// ExportCSV writes the user's whole trail, newest first.
func (s *auditService) ExportCSV(ctx context.Context, userId uuid.UUID, w io.Writer) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.AuditRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Time", "Action", "Object", "Details"}); err != nil {
		return err
	}
	for _, e := range entries {
		details := ""
		if len(e.ExtraData) > 0 {
			b, err := json.Marshal(e.ExtraData)
			if err != nil {
				return err
			}
			details = string(b)
		}
		row := []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			actionLabel(e.Action),
			fmt.Sprintf("%s #%s", e.ObjectType, e.ObjectId),
			details,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// actionLabel turns license_request into "License Request".
func actionLabel(a entity.AuditAction) string {
	words := strings.Split(string(a), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if w == "ea" {
			words[i] = "EA"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
