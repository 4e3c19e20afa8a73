package models

// RecordsResponse is returned by every endpoint that yields records.
type RecordsResponse struct {
	// Records holds the matching or saved records.
	Records []Record `json:"records"`

	// Length is the number of entries in Records.
	Length int `json:"length"`
}

// SubscriptionsResponse lists the subscriptions stored for a container.
type SubscriptionsResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
	Length        int            `json:"length"`
}

// DeletedRecordsResponse lists every record removed by a delete request,
// including records removed through weak-reference cascades.
type DeletedRecordsResponse struct {
	IDs    []string `json:"ids"`
	Length int      `json:"length"`
}
