package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         entity.UserRole(u.Role),
		IsStaff:      u.IsStaff,
		Status:       entity.UserStatus(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         string(u.Role),
		IsStaff:      u.IsStaff,
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ApiKeyToEntity(k *model.ApiKey) *entity.ApiKey {
	if k == nil {
		return nil
	}
	return &entity.ApiKey{
		Id:         k.Id,
		UserId:     k.UserId,
		Name:       k.Name,
		KeyHash:    k.KeyHash,
		Prefix:     k.Prefix,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

func (m *UserMapper) ApiKeyToModel(k *entity.ApiKey) *model.ApiKey {
	if k == nil {
		return nil
	}
	return &model.ApiKey{
		Id:         k.Id,
		UserId:     k.UserId,
		Name:       k.Name,
		KeyHash:    k.KeyHash,
		Prefix:     k.Prefix,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}
