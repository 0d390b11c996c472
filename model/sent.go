package model

type SendStatus string

const (
	SendOK       SendStatus = "ok"
	SendDegraded SendStatus = "degraded"
	SendError    SendStatus = "error"
)

// SentMessage is the journal entry written for every send attempt.
type SentMessage struct {
	Model
	AccountID        string     `gorm:"type:varchar(64);not null;index" json:"account_id"`
	To               string     `gorm:"type:text;not null" json:"to"`
	Subject          string     `gorm:"type:text;not null" json:"subject"`
	MessageID        string     `gorm:"type:varchar(512);not null;index" json:"message_id"`
	TemplateID       string     `gorm:"type:varchar(128)" json:"template_id"`
	Status           SendStatus `gorm:"type:varchar(16);not null" json:"status"`
	Reason           string     `gorm:"type:text" json:"reason"`
	Size             int64      `gorm:"not null" json:"size"`
	ObjectStorageKey string     `gorm:"type:varchar(512)" json:"object_storage_key"`
}
