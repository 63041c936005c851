package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/mappers"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

var configurationKeyColumns = []clause.Column{{Name: "partition_key"}, {Name: "row_key"}}

// ConfigurationRepository implements configuration.Repository
type ConfigurationRepository struct {
	db     *gorm.DB
	table  *tableInit
	logger logger.Interface
}

func NewConfigurationRepository(db *gorm.DB, logger logger.Interface) *ConfigurationRepository {
	return &ConfigurationRepository{
		db:     db,
		table:  newTableInit(db, &models.ConfigurationModel{}),
		logger: logger,
	}
}

var _ configuration.Repository = (*ConfigurationRepository)(nil)

// UpsertScalar stores value under key. Failures are logged and reported as false.
func (r *ConfigurationRepository) UpsertScalar(ctx context.Context, key configuration.EntityType, value string) bool {
	if err := r.table.ensure(ctx); err != nil {
		r.logger.Errorw("configuration table unavailable", "key", key, "error", err)
		return false
	}

	model := &models.ConfigurationModel{
		PartitionKey: configuration.ScalarPartitionKey,
		RowKey:       string(key),
		Data:         value,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   configurationKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"data", "timestamp"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save configuration", "key", key, "error", err)
		return false
	}
	return true
}

// GetScalar returns "" when the key was never saved.
func (r *ConfigurationRepository) GetScalar(ctx context.Context, key configuration.EntityType) (string, error) {
	if err := r.table.ensure(ctx); err != nil {
		return "", err
	}

	var rows []models.ConfigurationModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", configuration.ScalarPartitionKey, string(key)).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to read configuration", "key", key, "error", err)
		return "", unavailable("get configuration", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Data, nil
}

func (r *ConfigurationRepository) UpsertLanguageConfig(ctx context.Context, cfg *configuration.LanguageKBConfiguration) error {
	if err := r.table.ensure(ctx); err != nil {
		return err
	}

	model := mappers.LanguageConfigToModel(cfg)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: configurationKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"data", "knowledge_base_id", "qna_maker_endpoint_key", "team_id",
			"change_language_message_text", "help_tab_text", "timestamp",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save language configuration", "language", cfg.LanguageCode, "error", err)
		return unavailable("upsert language configuration", err)
	}
	return nil
}

// GetLanguageConfig returns (nil, nil) for an unconfigured language.
func (r *ConfigurationRepository) GetLanguageConfig(ctx context.Context, languageCode string) (*configuration.LanguageKBConfiguration, error) {
	if err := r.table.ensure(ctx); err != nil {
		return nil, err
	}

	var rows []models.ConfigurationModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", configuration.LanguagePartitionKey, configuration.NormalizeLanguageCode(languageCode)).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to read language configuration", "language", languageCode, "error", err)
		return nil, unavailable("get language configuration", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mappers.LanguageConfigToDomain(&rows[0]), nil
}

func (r *ConfigurationRepository) ListLanguageConfigs(ctx context.Context) ([]*configuration.LanguageKBConfiguration, error) {
	if err := r.table.ensure(ctx); err != nil {
		return nil, err
	}

	var rows []models.ConfigurationModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ?", configuration.LanguagePartitionKey).
		Order("row_key ASC").
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list language configurations", "error", err)
		return nil, unavailable("list language configurations", err)
	}

	configs := make([]*configuration.LanguageKBConfiguration, 0, len(rows))
	for i := range rows {
		configs = append(configs, mappers.LanguageConfigToDomain(&rows[i]))
	}
	return configs, nil
}
