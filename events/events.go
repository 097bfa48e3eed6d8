// Package events publishes notifications about relationship discovery so
// that other services (caseworker dashboards, notification workers) can react
// when a completed request surfaces related open work.
package events

import "context"

// Event topic constants
const (
	TopicRelationsDiscovered = "civicindex.request.related"
	TopicIndexRebuilt        = "civicindex.index.rebuilt"
)

// Publisher sends events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Event types

// RelatedRequest is one ranked neighbour of the source request.
type RelatedRequest struct {
	ID           int64  `json:"id"`
	TrackingCode string `json:"tracking_code"`
	Title        string `json:"title"`
	Weight       int64  `json:"weight"`
	Reason       string `json:"reason"`
}

type RelationsDiscovered struct {
	RequestID    int64            `json:"request_id"`
	TrackingCode string           `json:"tracking_code,omitempty"`
	Relations    []RelatedRequest `json:"relations"`
}

type IndexRebuilt struct {
	Records int `json:"records"`
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
}
