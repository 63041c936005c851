package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/faqplusplus/faqplusplus/internal/domain/langpref"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// LanguagePreferenceRepository implements langpref.Repository
type LanguagePreferenceRepository struct {
	db     *gorm.DB
	table  *tableInit
	logger logger.Interface
}

func NewLanguagePreferenceRepository(db *gorm.DB, logger logger.Interface) *LanguagePreferenceRepository {
	return &LanguagePreferenceRepository{
		db:     db,
		table:  newTableInit(db, &models.LanguagePreferenceModel{}),
		logger: logger,
	}
}

var _ langpref.Repository = (*LanguagePreferenceRepository)(nil)

func (r *LanguagePreferenceRepository) Upsert(ctx context.Context, p *langpref.Preference) error {
	if err := r.table.ensure(ctx); err != nil {
		return err
	}

	model := &models.LanguagePreferenceModel{
		PartitionKey: langpref.PartitionKey,
		RowKey:       p.UserObjectID,
		LanguageCode: p.LanguageCode,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partition_key"}, {Name: "row_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"language_code", "timestamp"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save language preference", "user_object_id", p.UserObjectID, "error", err)
		return unavailable("upsert language preference", err)
	}
	return nil
}

// Get returns (nil, nil) when the user never picked a language.
func (r *LanguagePreferenceRepository) Get(ctx context.Context, userObjectID string) (*langpref.Preference, error) {
	if strings.TrimSpace(userObjectID) == "" {
		return nil, nil
	}
	if err := r.table.ensure(ctx); err != nil {
		return nil, err
	}

	var rows []models.LanguagePreferenceModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", langpref.PartitionKey, userObjectID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to read language preference", "user_object_id", userObjectID, "error", err)
		return nil, unavailable("get language preference", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &langpref.Preference{UserObjectID: rows[0].RowKey, LanguageCode: rows[0].LanguageCode}, nil
}
