package models

// NotificationReason is the change that triggered a push notification.
type NotificationReason string

const (
	ReasonRecordCreated NotificationReason = "created"
	ReasonRecordUpdated NotificationReason = "updated"
	ReasonRecordDeleted NotificationReason = "deleted"
)

// Notification is a decoded push payload.
type Notification struct {
	RecordID       string             `json:"record_id"`
	RecordType     string             `json:"record_type,omitempty"`
	Reason         NotificationReason `json:"reason"`
	SubscriptionID string             `json:"subscription_id,omitempty"`
}
