package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appaudit "github.com/lindabi/backend/internal/application/audit"
	apptender "github.com/lindabi/backend/internal/application/tender"
	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/tender"
)

// TenderHandler handles tender endpoints
type TenderHandler struct {
	BaseHandler
	service    *apptender.Service
	reconciler *apptender.NumberReconciler
	journeys   *appaudit.JourneyService
}

// NewTenderHandler creates a new TenderHandler
func NewTenderHandler(service *apptender.Service, reconciler *apptender.NumberReconciler, journeys *appaudit.JourneyService) *TenderHandler {
	return &TenderHandler{
		service:    service,
		reconciler: reconciler,
		journeys:   journeys,
	}
}

type createTenderRequest struct {
	ContractorID uuid.UUID `json:"contractor_id" binding:"required"`
	CustomerID   uuid.UUID `json:"customer_id" binding:"required"`
	Currency     string    `json:"currency" binding:"required"`
}

type updateTenderRequest struct {
	ContractorID *uuid.UUID `json:"contractor_id"`
	CustomerID   *uuid.UUID `json:"customer_id"`
	Status       *string    `json:"status"`
	Fee          *float64   `json:"fee"`
	Returned     *bool      `json:"returned"`
	VATKey       *float64   `json:"vat_key"`
	Currency     *string    `json:"currency"`
	Surcharge    *float64   `json:"surcharge"`
	Discount     *float64   `json:"discount"`
	ValidTo      *time.Time `json:"valid_to"`
	OpenedOn     *time.Time `json:"opened_on"`
	Notes        *string    `json:"notes"`
}

func (r updateTenderRequest) toPatch() tender.Patch {
	patch := tender.Patch{
		ContractorID: r.ContractorID,
		CustomerID:   r.CustomerID,
		Returned:     r.Returned,
		Currency:     r.Currency,
		ValidTo:      r.ValidTo,
		OpenedOn:     r.OpenedOn,
		Notes:        r.Notes,
	}
	if r.Status != nil {
		status := tender.Status(*r.Status)
		patch.Status = &status
	}
	patch.Fee = toDecimalPtr(r.Fee)
	patch.VATKey = toDecimalPtr(r.VATKey)
	patch.Surcharge = toDecimalPtr(r.Surcharge)
	patch.Discount = toDecimalPtr(r.Discount)
	return patch
}

type itemRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Quantity              float64 `json:"quantity"`
	Unit                  string  `json:"unit"`
	MaterialNetUnitAmount float64 `json:"material_net_unit_amount"`
	FeeNetUnitAmount      float64 `json:"fee_net_unit_amount"`
}

type updateItemRequest struct {
	Name                  *string  `json:"name"`
	Quantity              *float64 `json:"quantity"`
	Unit                  *string  `json:"unit"`
	MaterialNetUnitAmount *float64 `json:"material_net_unit_amount"`
	FeeNetUnitAmount      *float64 `json:"fee_net_unit_amount"`
}

type moveItemRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type copyItemsRequest struct {
	SourceID uuid.UUID `json:"source_id" binding:"required"`
}

// toDecimalPtr converts an optional float64 to an optional decimal
func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

type tenderResponse struct {
	ID           uuid.UUID       `json:"id"`
	ContractorID uuid.UUID       `json:"contractor_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	Status       string          `json:"status"`
	Number       *string         `json:"number"`
	Fee          decimal.Decimal `json:"fee"`
	Returned     bool            `json:"returned"`
	VATKey       decimal.Decimal `json:"vat_key"`
	Currency     string          `json:"currency"`
	Surcharge    decimal.Decimal `json:"surcharge"`
	Discount     decimal.Decimal `json:"discount"`
	ValidTo      *time.Time      `json:"valid_to"`
	OpenedOn     *time.Time      `json:"opened_on"`
	Notes        string          `json:"notes"`
	Items        []itemResponse  `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type itemResponse struct {
	ID                      uuid.UUID       `json:"id"`
	Num                     int             `json:"num"`
	Name                    string          `json:"name"`
	Quantity                decimal.Decimal `json:"quantity"`
	Unit                    string          `json:"unit"`
	MaterialNetUnitAmount   decimal.Decimal `json:"material_net_unit_amount"`
	FeeNetUnitAmount        decimal.Decimal `json:"fee_net_unit_amount"`
	MaterialNetAmount       decimal.Decimal `json:"material_net_amount"`
	FeeNetAmount            decimal.Decimal `json:"fee_net_amount"`
	MaterialActualNetAmount decimal.Decimal `json:"material_actual_net_amount"`
	FeeActualNetAmount      decimal.Decimal `json:"fee_actual_net_amount"`
	TotalMaterialAmount     decimal.Decimal `json:"total_material_amount"`
	TotalFeeAmount          decimal.Decimal `json:"total_fee_amount"`
}

func toTenderResponse(t *tender.Tender) tenderResponse {
	items := make([]itemResponse, 0, len(t.Items))
	for idx := range t.Items {
		items = append(items, toItemResponse(&t.Items[idx]))
	}
	return tenderResponse{
		ID:           t.ID,
		ContractorID: t.ContractorID,
		CustomerID:   t.CustomerID,
		Status:       t.Status.String(),
		Number:       t.Number,
		Fee:          t.Fee,
		Returned:     t.Returned,
		VATKey:       t.VATKey,
		Currency:     t.Currency,
		Surcharge:    t.Surcharge,
		Discount:     t.Discount,
		ValidTo:      t.ValidTo,
		OpenedOn:     t.OpenedOn,
		Notes:        t.Notes,
		Items:        items,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toItemResponse(i *tender.TenderItem) itemResponse {
	return itemResponse{
		ID:                      i.ID,
		Num:                     i.Num,
		Name:                    i.Name,
		Quantity:                i.Quantity,
		Unit:                    i.Unit,
		MaterialNetUnitAmount:   i.MaterialNetUnitAmount,
		FeeNetUnitAmount:        i.FeeNetUnitAmount,
		MaterialNetAmount:       i.MaterialNetAmount,
		FeeNetAmount:            i.FeeNetAmount,
		MaterialActualNetAmount: i.MaterialActualNetAmount,
		FeeActualNetAmount:      i.FeeActualNetAmount,
		TotalMaterialAmount:     i.TotalMaterialAmount,
		TotalFeeAmount:          i.TotalFeeAmount,
	}
}

// identify extracts tenant and actor from the request headers
func (h *TenderHandler) identify(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenant, err := tenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	actor, err := actorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	return tenant, actor, true
}

func (h *TenderHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/tenders
func (h *TenderHandler) Create(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	var req createTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.CreateTender(c.Request.Context(), apptender.CreateTenderRequest{
		TenantID:     tenant,
		ContractorID: req.ContractorID,
		CustomerID:   req.CustomerID,
		Currency:     req.Currency,
		Actor:        actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTenderResponse(created))
}

// Get handles GET /api/v1/tenders/:id
func (h *TenderHandler) Get(c *gin.Context) {
	tenant, _, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetTender(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenderResponse(found))
}

// Update handles PATCH /api/v1/tenders/:id
func (h *TenderHandler) Update(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req updateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateTender(c.Request.Context(), tenant, id, req.toPatch(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenderResponse(updated))
}

// Delete handles DELETE /api/v1/tenders/:id
func (h *TenderHandler) Delete(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTender(c.Request.Context(), tenant, id, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Copy handles POST /api/v1/tenders/:id/copy
func (h *TenderHandler) Copy(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	clone, err := h.service.CopyTender(c.Request.Context(), tenant, id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTenderResponse(clone))
}

// CopyItems handles POST /api/v1/tenders/:id/items/copy
func (h *TenderHandler) CopyItems(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	targetID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req copyItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.CopyItems(c.Request.Context(), tenant, req.SourceID, targetID, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Totals handles GET /api/v1/tenders/:id/totals
func (h *TenderHandler) Totals(c *gin.Context) {
	tenant, _, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.GetTotals(c.Request.Context(), tenant, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Journeys handles GET /api/v1/tenders/:id/journeys
func (h *TenderHandler) Journeys(c *gin.Context) {
	if _, _, ok := h.identify(c); !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.journeys.GetJourneys(c.Request.Context(), audit.OwnerTypeTender, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// ItemJourneys handles GET /api/v1/tenders/:id/items/:itemId/journeys
func (h *TenderHandler) ItemJourneys(c *gin.Context) {
	if _, _, ok := h.identify(c); !ok {
		return
	}
	if _, ok := h.pathID(c, "id"); !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}

	entries, err := h.journeys.GetJourneys(c.Request.Context(), audit.OwnerTypeTenderItem, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// AddItem handles POST /api/v1/tenders/:id/items
func (h *TenderHandler) AddItem(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.AddItem(c.Request.Context(), tenant, id, apptender.AddItemRequest{
		Name:                  req.Name,
		Quantity:              decimal.NewFromFloat(req.Quantity),
		Unit:                  req.Unit,
		MaterialNetUnitAmount: decimal.NewFromFloat(req.MaterialNetUnitAmount),
		FeeNetUnitAmount:      decimal.NewFromFloat(req.FeeNetUnitAmount),
	}, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toItemResponse(created))
}

// UpdateItem handles PATCH /api/v1/tenders/:id/items/:itemId
func (h *TenderHandler) UpdateItem(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateItem(c.Request.Context(), tenant, id, itemID, tender.ItemPatch{
		Name:                  req.Name,
		Quantity:              toDecimalPtr(req.Quantity),
		Unit:                  req.Unit,
		MaterialNetUnitAmount: toDecimalPtr(req.MaterialNetUnitAmount),
		FeeNetUnitAmount:      toDecimalPtr(req.FeeNetUnitAmount),
	}, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toItemResponse(updated))
}

// RemoveItem handles DELETE /api/v1/tenders/:id/items/:itemId
func (h *TenderHandler) RemoveItem(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), tenant, id, itemID, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MoveItem handles POST /api/v1/tenders/:id/items/:itemId/move
func (h *TenderHandler) MoveItem(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}
	var req moveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	direction := apptender.MoveUp
	if req.Direction == "down" {
		direction = apptender.MoveDown
	}
	if err := h.service.MoveItem(c.Request.Context(), tenant, id, itemID, direction, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Duplicates handles GET /api/v1/tenders/numbers/duplicates
func (h *TenderHandler) Duplicates(c *gin.Context) {
	tenant, _, ok := h.identify(c)
	if !ok {
		return
	}

	groups, err := h.reconciler.FindDuplicates(c.Request.Context(), tenant)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// CleanupDuplicates handles POST /api/v1/tenders/numbers/cleanup
func (h *TenderHandler) CleanupDuplicates(c *gin.Context) {
	tenant, actor, ok := h.identify(c)
	if !ok {
		return
	}

	renamed, err := h.reconciler.CleanupDuplicates(c.Request.Context(), tenant, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"renamed": renamed})
}

// NumberStats handles GET /api/v1/tenders/numbers/stats
func (h *TenderHandler) NumberStats(c *gin.Context) {
	tenant, _, ok := h.identify(c)
	if !ok {
		return
	}

	stats, err := h.reconciler.Stats(c.Request.Context(), tenant)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
