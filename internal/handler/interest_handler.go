package handler

import (
	"net/http"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logic"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InterestHandler struct {
	interestLogic *logic.InterestLogic
}

func NewInterestHandler(db *gorm.DB, dispatcher *event.Dispatcher) *InterestHandler {
	return &InterestHandler{
		interestLogic: logic.NewInterestLogic(db, dispatcher),
	}
}

// ExpressInterest POST /campaigns/:id/interests
func (h *InterestHandler) ExpressInterest(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	campaignId, ok := PathId(c, "id")
	if !ok {
		return
	}

	record, err := h.interestLogic.ExpressInterest(actor, campaignId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "interest recorded", record)
}

// Pledge POST /interests/:id/pledge
func (h *InterestHandler) Pledge(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	recordId, ok := PathId(c, "id")
	if !ok {
		return
	}
	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.interestLogic.Pledge(actor, recordId, req.Amount)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "pledge recorded", record)
}

// Accept POST /interests/:id/accept
func (h *InterestHandler) Accept(c *gin.Context) {
	h.action(c, h.interestLogic.Accept, "interest accepted")
}

// Reject POST /interests/:id/reject
func (h *InterestHandler) Reject(c *gin.Context) {
	h.action(c, h.interestLogic.Reject, "interest rejected")
}

// ConfirmPayment POST /interests/:id/confirm-payment
func (h *InterestHandler) ConfirmPayment(c *gin.Context) {
	h.action(c, h.interestLogic.ConfirmPayment, "payment confirmed")
}

// Withdraw POST /interests/:id/withdraw
func (h *InterestHandler) Withdraw(c *gin.Context) {
	h.action(c, h.interestLogic.Withdraw, "interest withdrawn")
}

// ListForCampaign GET /campaigns/:id/interests
func (h *InterestHandler) ListForCampaign(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	campaignId, ok := PathId(c, "id")
	if !ok {
		return
	}

	records, err := h.interestLogic.ListForCampaign(actor, campaignId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", records)
}

// ListForInvestor GET /investors/:id/interests
func (h *InterestHandler) ListForInvestor(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	investorId, ok := PathId(c, "id")
	if !ok {
		return
	}

	records, err := h.interestLogic.ListForInvestor(actor, investorId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", records)
}

func (h *InterestHandler) action(c *gin.Context, op func(model.Actor, int64) (*model.InterestRecordModel, error), message string) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	recordId, ok := PathId(c, "id")
	if !ok {
		return
	}

	record, err := op(actor, recordId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, message, record)
}
