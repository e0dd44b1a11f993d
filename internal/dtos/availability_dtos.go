package dtos

import "github.com/ownstays/settlement-service/internal/models"

// TierAvailabilityResponse maps each tier's basis-point size to whether at
// least one unit in the collection can still absorb it.
type TierAvailabilityResponse struct {
	CollectionID string       `json:"collection_id"`
	Availability map[int]bool `json:"availability"`
}

type CollectionListResponse struct {
	Collections []*models.Collection `json:"collections"`
}

type UnitListResponse struct {
	Units []*models.Unit `json:"units"`
}

// UnitCapacityResponse is the operator view of one unit's ledger position.
type UnitCapacityResponse struct {
	UnitID           string `json:"unit_id"`
	TotalOwnedBP     int    `json:"total_owned_bp"`
	AvailableBP      int    `json:"available_bp"`
	OwnershipRecords int    `json:"ownership_records"`
}

type OwnershipSummaryResponse struct {
	Records []*models.OwnershipRecord `json:"records"`
}
