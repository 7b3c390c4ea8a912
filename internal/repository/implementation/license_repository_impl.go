package implementation

import (
	"context"
	"errors"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/mapper"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/repository/contract"
	"ea-licensing-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LicenseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LicenseMapper
}

func NewLicenseRepository(db *gorm.DB) contract.LicenseRepository {
	return &LicenseRepositoryImpl{
		db:     db,
		mapper: mapper.NewLicenseMapper(),
	}
}

func (r *LicenseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LicenseRepositoryImpl) CreateIfAbsent(ctx context.Context, license *entity.LicenseKey) (bool, error) {
	m := r.mapper.ToModel(license)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "expert_advisor_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *LicenseRepositoryImpl) Update(ctx context.Context, license *entity.LicenseKey) error {
	m := r.mapper.ToModel(license)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *LicenseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LicenseKey, error) {
	var m model.LicenseKey
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LicenseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LicenseKey, error) {
	var models []*model.LicenseKey
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	licenses := make([]*entity.LicenseKey, 0, len(models))
	for _, m := range models {
		licenses = append(licenses, r.mapper.ToEntity(m))
	}
	return licenses, nil
}

func (r *LicenseRepositoryImpl) FindExpiredIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := specification.ExpiredAsOf{Now: now}.
		Apply(r.db.WithContext(ctx).Model(&model.LicenseKey{})).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *LicenseRepositoryImpl) ExpireIfActive(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LicenseKey{}).
		Where("id = ? AND status = ?", id, string(entity.LicenseStatusActive)).
		Updates(map[string]interface{}{
			"status":         string(entity.LicenseStatusRevoked),
			"deactivated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *LicenseRepositoryImpl) RenewActiveForUser(ctx context.Context, userID uuid.UUID, expiresAt *time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.LicenseKey{}).
		Where("user_id = ? AND status = ?", userID, string(entity.LicenseStatusActive)).
		Update("expires_at", expiresAt)
	return res.RowsAffected, res.Error
}

func (r *LicenseRepositoryImpl) Touch(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	return r.db.WithContext(ctx).Model(&model.LicenseKey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_used_at": at, "last_used_ip": ip}).Error
}

func (r *LicenseRepositoryImpl) CreateUsage(ctx context.Context, usage *entity.LicenseUsage) error {
	m := r.mapper.UsageToModel(usage)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*usage = *r.mapper.UsageToEntity(m)
	return nil
}

// Expert advisors

func (r *LicenseRepositoryImpl) CreateExpertAdvisor(ctx context.Context, ea *entity.ExpertAdvisor) error {
	m := r.mapper.ExpertAdvisorToModel(ea)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*ea = *r.mapper.ExpertAdvisorToEntity(m)
	return nil
}

func (r *LicenseRepositoryImpl) FindExpertAdvisor(ctx context.Context, specs ...specification.Specification) (*entity.ExpertAdvisor, error) {
	var m model.ExpertAdvisor
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("EligiblePlans"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ExpertAdvisorToEntity(&m), nil
}

func (r *LicenseRepositoryImpl) FindAllExpertAdvisors(ctx context.Context, specs ...specification.Specification) ([]*entity.ExpertAdvisor, error) {
	var models []*model.ExpertAdvisor
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("EligiblePlans"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	eas := make([]*entity.ExpertAdvisor, 0, len(models))
	for _, m := range models {
		eas = append(eas, r.mapper.ExpertAdvisorToEntity(m))
	}
	return eas, nil
}

func (r *LicenseRepositoryImpl) CreateFile(ctx context.Context, file *entity.EAFile) error {
	m := r.mapper.FileToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	file.Id = m.Id
	file.CreatedAt = m.CreatedAt
	return nil
}

func (r *LicenseRepositoryImpl) FindFile(ctx context.Context, specs ...specification.Specification) (*entity.EAFile, error) {
	var m model.EAFile
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("ExpertAdvisor.EligiblePlans"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FileToEntity(&m), nil
}
