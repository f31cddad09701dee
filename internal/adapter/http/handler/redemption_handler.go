package handler

import (
	"strconv"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/http/dto"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/apperror"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RedemptionHandler handles redemption ledger endpoints.
type RedemptionHandler struct {
	ledgerSvc ports.LedgerService
}

// NewRedemptionHandler creates a new RedemptionHandler.
func NewRedemptionHandler(ledgerSvc ports.LedgerService) *RedemptionHandler {
	return &RedemptionHandler{ledgerSvc: ledgerSvc}
}

// Record handles POST /api/v1/redemptions. A replayed transaction hash
// yields 409, never a second row.
func (h *RedemptionHandler) Record(c *gin.Context) {
	var req dto.RecordRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	red, err := h.ledgerSvc.RecordRedemption(c.Request.Context(), req.ToServiceRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewRedemptionResponse(red))
}

// List handles GET /api/v1/redemptions?walletAddress=&limit=&offset=.
func (h *RedemptionHandler) List(c *gin.Context) {
	walletAddress := c.Query("walletAddress")
	if walletAddress == "" {
		response.Error(c, apperror.ErrMissingWalletAddress())
		return
	}

	params, err := parseListParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	reds, total, err := h.ledgerSvc.ListRedemptions(c.Request.Context(), walletAddress, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RedemptionListResponse{
		Items:  dto.NewRedemptionList(reds),
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// parseListParams reads limit/offset query params, applying the default
// page size and the upper bound. Non-numeric values are a 400.
func parseListParams(c *gin.Context) (ports.ListParams, error) {
	params := ports.ListParams{Limit: defaultPageSize}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return params, apperror.Validation("limit must be a positive integer")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		params.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, apperror.Validation("offset must be a non-negative integer")
		}
		params.Offset = offset
	}

	return params, nil
}
