package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/services"
	"github.com/ownstays/settlement-service/internal/utils"
)

type AvailabilityController struct {
	availability   *services.AvailabilityService
	collectionRepo repositories.CollectionRepository
	unitRepo       repositories.UnitRepository
	ownershipRepo  repositories.OwnershipRepository
	paymentRepo    repositories.PaymentRepository
}

func NewAvailabilityController(
	availability *services.AvailabilityService,
	collectionRepo repositories.CollectionRepository,
	unitRepo repositories.UnitRepository,
	ownershipRepo repositories.OwnershipRepository,
	paymentRepo repositories.PaymentRepository,
) *AvailabilityController {
	return &AvailabilityController{
		availability:   availability,
		collectionRepo: collectionRepo,
		unitRepo:       unitRepo,
		ownershipRepo:  ownershipRepo,
		paymentRepo:    paymentRepo,
	}
}

// TierAvailabilityHandler -> GET /api/v1/collections/{id}/availability
func (c *AvailabilityController) TierAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	availability, err := c.availability.TierAvailability(r.Context(), collectionID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, utils.ErrCollectionNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeCollectionNotFound, "Collection not found", nil)
			return
		}
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to compute availability", nil, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.TierAvailabilityResponse{
		CollectionID: collectionID.String(),
		Availability: availability,
	})
}

// ListCollectionsHandler -> GET /api/v1/collections
func (c *AvailabilityController) ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := c.collectionRepo.List(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to list collections", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.CollectionListResponse{Collections: collections})
}

// ListUnitsHandler -> GET /api/v1/collections/{id}/units
func (c *AvailabilityController) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	units, err := c.unitRepo.ListByCollectionID(r.Context(), collectionID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to list units", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnitListResponse{Units: units})
}

// UnitCapacityHandler -> GET /api/v1/units/{id}/capacity
func (c *AvailabilityController) UnitCapacityHandler(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	records, err := c.ownershipRepo.ListByUnit(r.Context(), unitID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to read unit ledger", nil, err)
		return
	}
	total := 0
	for _, rec := range records {
		total += rec.BasisPoints
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnitCapacityResponse{
		UnitID:           unitID.String(),
		TotalOwnedBP:     total,
		AvailableBP:      constants.FullOwnershipBasisPoints - total,
		OwnershipRecords: len(records),
	})
}

// OwnershipByUserHandler -> GET /api/v1/users/{id}/ownership
func (c *AvailabilityController) OwnershipByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	records, err := c.ownershipRepo.ListByUser(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to read ownership records", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.OwnershipSummaryResponse{Records: records})
}

// UserPaymentsHandler -> GET /api/v1/users/{id}/payments
func (c *AvailabilityController) UserPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	payments, err := c.paymentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to read payment records", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PaymentListResponse{Payments: payments})
}

func pathUUID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[key]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed id in path", nil, err)
		return uuid.Nil, false
	}
	return id, true
}
