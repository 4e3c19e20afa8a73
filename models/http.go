package models

// SaveRecordsRequest carries a batch of records to upsert in one call.
type SaveRecordsRequest struct {
	Records []Record `json:"records"`
	Length  int      `json:"length"`
}

// FetchRecordsRequest asks for several records by id.
type FetchRecordsRequest struct {
	IDs []string `json:"ids"`
}

// DeleteRecordsRequest asks for several records to be deleted by id.
type DeleteRecordsRequest struct {
	IDs []string `json:"ids"`
}
