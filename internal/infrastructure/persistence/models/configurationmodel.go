package models

import "time"

// ConfigurationModel holds scalar settings and per-language bindings in one
// table. Scalar rows use Data; language rows use the typed columns.
type ConfigurationModel struct {
	PartitionKey              string    `gorm:"column:partition_key;type:varchar(64);primaryKey"`
	RowKey                    string    `gorm:"column:row_key;type:varchar(64);primaryKey"`
	Data                      string    `gorm:"column:data;type:text"`
	KnowledgeBaseID           string    `gorm:"column:knowledge_base_id;type:varchar(64)"`
	QnAMakerEndpointKey       string    `gorm:"column:qna_maker_endpoint_key;type:varchar(255)"`
	TeamID                    string    `gorm:"column:team_id;type:varchar(255)"`
	ChangeLanguageMessageText string    `gorm:"column:change_language_message_text;type:text"`
	HelpTabText               string    `gorm:"column:help_tab_text;type:text"`
	Timestamp                 time.Time `gorm:"column:timestamp;autoUpdateTime"`
}

func (ConfigurationModel) TableName() string {
	return "faq_configuration"
}
