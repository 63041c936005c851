package models

import "time"

// TicketModel is a ticket row. PartitionKey is always "TicketInfo" and
// RowKey is the ticket id.
type TicketModel struct {
	PartitionKey                string     `gorm:"column:partition_key;type:varchar(64);primaryKey"`
	RowKey                      string     `gorm:"column:row_key;type:varchar(64);primaryKey"`
	Title                       string     `gorm:"column:title;type:varchar(500);not null"`
	Description                 string     `gorm:"column:description;type:text"`
	Status                      int        `gorm:"column:status;not null;default:0;index"`
	DateCreated                 time.Time  `gorm:"column:date_created;not null"`
	DateAssigned                *time.Time `gorm:"column:date_assigned"`
	LanguageCode                string     `gorm:"column:language_code;type:varchar(20);index"`
	RequesterName               string     `gorm:"column:requester_name;type:varchar(255)"`
	RequesterUserPrincipalName  string     `gorm:"column:requester_upn;type:varchar(255);index"`
	RequesterGivenName          string     `gorm:"column:requester_given_name;type:varchar(255)"`
	RequesterConversationID     string     `gorm:"column:requester_conversation_id;type:varchar(255)"`
	AssignedToName              string     `gorm:"column:assigned_to_name;type:varchar(255)"`
	AssignedToObjectID          string     `gorm:"column:assigned_to_object_id;type:varchar(64)"`
	AssignedToUserPrincipalName string     `gorm:"column:assigned_to_upn;type:varchar(255)"`
	LastModifiedByName          string     `gorm:"column:last_modified_by_name;type:varchar(255)"`
	LastModifiedByObjectID      string     `gorm:"column:last_modified_by_object_id;type:varchar(64)"`
	UserQuestion                string     `gorm:"column:user_question;type:text"`
	KnowledgeBaseAnswer         string     `gorm:"column:knowledge_base_answer;type:text"`
	KnowledgeBaseQuestion       string     `gorm:"column:knowledge_base_question;type:text"`
	AnswerBySME                 string     `gorm:"column:answer_by_sme;type:text"`
	SMECardActivityID           string     `gorm:"column:sme_card_activity_id;type:varchar(255)"`
	SMEThreadConversationID     string     `gorm:"column:sme_thread_conversation_id;type:varchar(255)"`
	IsDeleted                   bool       `gorm:"column:is_deleted;not null;default:false"`
	Timestamp                   time.Time  `gorm:"column:timestamp;autoUpdateTime"`
}

func (TicketModel) TableName() string {
	return "faq_tickets"
}
