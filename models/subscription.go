package models

// SubscriptionEvent is a record change that fires a subscription.
type SubscriptionEvent string

const (
	EventRecordCreated SubscriptionEvent = "created"
	EventRecordUpdated SubscriptionEvent = "updated"
	EventRecordDeleted SubscriptionEvent = "deleted"
)

// Subscription asks the remote store to notify about changes of RecordType.
type Subscription struct {
	ID         string              `json:"id"`
	RecordType string              `json:"record_type"`
	Events     []SubscriptionEvent `json:"events"`
}

// AccountStatus is the remote account state reported by the store.
type AccountStatus string

const (
	AccountAvailable         AccountStatus = "available"
	AccountNoAccount         AccountStatus = "no_account"
	AccountRestricted        AccountStatus = "restricted"
	AccountCouldNotDetermine AccountStatus = "could_not_determine"
)

// StatusResponse is returned by the store status endpoint.
type StatusResponse struct {
	Container string        `json:"container"`
	Scope     string        `json:"scope"`
	Account   AccountStatus `json:"account"`
}
