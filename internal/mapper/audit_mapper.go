package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) ToEntity(a *model.AuditLog) *entity.AuditLog {
	if a == nil {
		return nil
	}
	return &entity.AuditLog{
		Id:         a.Id,
		UserId:     a.UserId,
		Action:     entity.AuditAction(a.Action),
		ObjectType: a.ObjectType,
		ObjectId:   a.ObjectId,
		ExtraData:  fromJSON(a.ExtraData),
		IpAddress:  a.IpAddress,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *AuditMapper) ToModel(a *entity.AuditLog) *model.AuditLog {
	if a == nil {
		return nil
	}
	return &model.AuditLog{
		Id:         a.Id,
		UserId:     a.UserId,
		Action:     string(a.Action),
		ObjectType: a.ObjectType,
		ObjectId:   a.ObjectId,
		ExtraData:  toJSON(a.ExtraData),
		IpAddress:  a.IpAddress,
		CreatedAt:  a.CreatedAt,
	}
}
