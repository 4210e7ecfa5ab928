package observe

import (
	"time"

	"farmstead/internal/domain/farm"
)

type Request struct {
	ViewerID string `json:"viewer_id"`
	// OwnerID selects whose farm to look at. Empty means the viewer's own.
	OwnerID string `json:"owner_id,omitempty"`
}

// ObservedObject pairs the stored row with its lifecycle state computed at
// request time. Nothing about the row changes while observing.
type ObservedObject struct {
	Object  farm.Object       `json:"object"`
	Derived farm.DerivedState `json:"derived"`
}

type Response struct {
	OwnerID    string           `json:"owner_id"`
	Objects    []ObservedObject `json:"objects"`
	ServerTime time.Time        `json:"server_time"`
}
