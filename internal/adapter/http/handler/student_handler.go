package handler

import (
	"github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/http/dto"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/apperror"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/response"

	"github.com/gin-gonic/gin"
)

// StudentHandler handles student profile endpoints.
type StudentHandler struct {
	ledgerSvc ports.LedgerService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(ledgerSvc ports.LedgerService) *StudentHandler {
	return &StudentHandler{ledgerSvc: ledgerSvc}
}

// FindOrCreate handles GET /api/v1/students?walletAddress=.
// First contact from a wallet creates a bare profile.
func (h *StudentHandler) FindOrCreate(c *gin.Context) {
	walletAddress := c.Query("walletAddress")
	if walletAddress == "" {
		response.Error(c, apperror.ErrMissingWalletAddress())
		return
	}

	student, err := h.ledgerSvc.GetOrCreateStudent(c.Request.Context(), walletAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStudentWithHistory(student))
}

// Upsert handles POST /api/v1/students.
func (h *StudentHandler) Upsert(c *gin.Context) {
	var req dto.UpsertStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	student, err := h.ledgerSvc.UpsertProfile(c.Request.Context(), req.WalletAddress, req.ToProfileUpdate())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStudentResponse(student))
}

// Get handles GET /api/v1/students/:walletAddress. Unlike FindOrCreate
// this is a strict lookup: unknown wallets are a 404.
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.ledgerSvc.GetStudent(c.Request.Context(), c.Param("walletAddress"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStudentWithHistory(student))
}

// UpdateProfile handles PATCH /api/v1/students/:walletAddress.
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	student, err := h.ledgerSvc.UpdateProfile(c.Request.Context(), c.Param("walletAddress"), req.ToProfileUpdate())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStudentResponse(student))
}
