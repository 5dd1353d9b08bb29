package qdrant

// createCollectionRequest is the body of PUT /collections/{name}.
type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

// vectorParams declares a collection's dimensionality and distance metric.
type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// upsertPointsRequest is the body of PUT /collections/{name}/points.
type upsertPointsRequest struct {
	Points []pointStruct `json:"points"`
}

// pointStruct is one point in an upsert batch.
type pointStruct struct {
	ID      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// searchRequest is the body of POST /collections/{name}/points/search.
type searchRequest struct {
	Vector []float32 `json:"vector"`
}

// searchResponse is the response from a search. Result is ordered best-first.
type searchResponse struct {
	Result []scoredPoint `json:"result"`
}

// scoredPoint is one match in a search response. Score and payload are
// optional in the service's answer.
type scoredPoint struct {
	ID      uint64         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}
