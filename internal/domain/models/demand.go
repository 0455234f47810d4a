package models

type DemandStatus string

const (
	DemandPending   DemandStatus = "pending"
	DemandApproved  DemandStatus = "approved"
	DemandFulfilled DemandStatus = "fulfilled"
)

// DemandRecord is one order line or trip registration seen by the demand report.
// Cancelled marks records whose outer order or registration was cancelled or rejected.
type DemandRecord struct {
	ThingID   int64        `json:"thing_id"`
	Kind      ThingKind    `json:"kind"`
	Status    DemandStatus `json:"status"`
	Quantity  int64        `json:"quantity"`
	Cancelled bool         `json:"cancelled"`
}

type DemandSummary struct {
	ThingID   int64 `json:"thing_id"`
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Fulfilled int64 `json:"fulfilled"`
}
