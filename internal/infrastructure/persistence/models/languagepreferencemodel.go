package models

import "time"

type LanguagePreferenceModel struct {
	PartitionKey string    `gorm:"column:partition_key;type:varchar(64);primaryKey"`
	RowKey       string    `gorm:"column:row_key;type:varchar(64);primaryKey"`
	LanguageCode string    `gorm:"column:language_code;type:varchar(20);not null"`
	Timestamp    time.Time `gorm:"column:timestamp;autoUpdateTime"`
}

func (LanguagePreferenceModel) TableName() string {
	return "faq_language_preferences"
}
