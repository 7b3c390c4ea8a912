package implementation

import (
	"context"
	"errors"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/mapper"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/repository/contract"
	"ea-licensing-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LearningMapper
}

func NewLearningRepository(db *gorm.DB) contract.LearningRepository {
	return &LearningRepositoryImpl{
		db:     db,
		mapper: mapper.NewLearningMapper(),
	}
}

func (r *LearningRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LearningRepositoryImpl) CreateResource(ctx context.Context, resource *entity.LearningResource) error {
	m := r.mapper.ResourceToModel(resource)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*resource = *r.mapper.ResourceToEntity(m)
	return nil
}

func (r *LearningRepositoryImpl) FindResource(ctx context.Context, specs ...specification.Specification) (*entity.LearningResource, error) {
	var m model.LearningResource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ResourceToEntity(&m), nil
}

func (r *LearningRepositoryImpl) FindAllResources(ctx context.Context, specs ...specification.Specification) ([]*entity.LearningResource, error) {
	var models []*model.LearningResource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	resources := make([]*entity.LearningResource, 0, len(models))
	for _, m := range models {
		resources = append(resources, r.mapper.ResourceToEntity(m))
	}
	return resources, nil
}

func (r *LearningRepositoryImpl) UpsertProgress(ctx context.Context, progress *entity.UserProgress) error {
	m := r.mapper.ProgressToModel(progress)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "resource_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "completed", "updated_at"}),
		}).
		Create(m).Error
}

func (r *LearningRepositoryImpl) FindProgress(ctx context.Context, specs ...specification.Specification) ([]*entity.UserProgress, error) {
	var models []*model.UserProgress
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	progress := make([]*entity.UserProgress, 0, len(models))
	for _, m := range models {
		progress = append(progress, r.mapper.ProgressToEntity(m))
	}
	return progress, nil
}
