package types

// DeliverableItem is a single requested content item on an offer, stored as
// part of the deliverables jsonb column.
type DeliverableItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Deliverables is the full requested list for an offer.
type Deliverables []DeliverableItem
