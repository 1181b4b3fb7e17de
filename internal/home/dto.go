package home

// HealthResponse is the liveness payload. Dataset is "loaded" once a
// snapshot is in memory and "empty" before the first successful load.
type HealthResponse struct {
	Status  string `json:"status"`
	Dataset string `json:"dataset"`
}
