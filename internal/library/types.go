package library

import "encoding/json"

// Envelope wraps single objects (profile, track, artist).
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data" swaggertype:"object"`
}

type RankedEnvelope struct {
	Success   bool            `json:"success"`
	TimeRange string          `json:"time_range"`
	Limit     int             `json:"limit"`
	Offset    int             `json:"offset"`
	Total     int64           `json:"total"`
	Data      json.RawMessage `json:"data" swaggertype:"array,object"`
}

type PageEnvelope struct {
	Success bool            `json:"success"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Total   int64           `json:"total"`
	Data    json.RawMessage `json:"data" swaggertype:"array,object"`
}

type HistoryEnvelope struct {
	Success bool            `json:"success"`
	Limit   int             `json:"limit"`
	Data    json.RawMessage `json:"data" swaggertype:"array,object"`
	Cursors json.RawMessage `json:"cursors" swaggertype:"object"`
}

type FeaturesEnvelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data" swaggertype:"array,object"`
}
