package handler

import (
	"net/http"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logic"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(db *gorm.DB, dispatcher *event.Dispatcher) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: logic.NewCampaignLogic(db, dispatcher),
	}
}

// CreateCampaign POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	var input logic.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignLogic.CreateCampaign(actor, input)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "campaign created", campaign)
}

// GetCampaigns GET /campaigns
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	status := model.CampaignStatus(c.Query("status"))
	enterpriseId, _ := parseQueryInt64(c, "enterprise_id")
	page, pageSize := parsePagination(c)

	campaigns, total, err := h.campaignLogic.ListCampaigns(status, enterpriseId, page, pageSize)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{
		"campaigns": campaigns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCampaign GET /campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := PathId(c, "id")
	if !ok {
		return
	}
	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", campaign)
}

// EditCampaign PUT /campaigns/:id
func (h *CampaignHandler) EditCampaign(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	id, ok := PathId(c, "id")
	if !ok {
		return
	}
	var update logic.CampaignUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignLogic.EditCampaign(actor, id, update)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "campaign updated", campaign)
}

// SubmitForReview POST /campaigns/:id/submit
func (h *CampaignHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, func(actor model.Actor, id int64, _ reviewRequest) (*model.CampaignModel, error) {
		return h.campaignLogic.SubmitForReview(actor, id)
	}, "campaign submitted for review")
}

// Approve POST /campaigns/:id/approve
func (h *CampaignHandler) Approve(c *gin.Context) {
	h.transition(c, func(actor model.Actor, id int64, req reviewRequest) (*model.CampaignModel, error) {
		return h.campaignLogic.Approve(actor, id, req.Notes)
	}, "campaign approved")
}

// RequestRevision POST /campaigns/:id/revision
func (h *CampaignHandler) RequestRevision(c *gin.Context) {
	h.transition(c, func(actor model.Actor, id int64, req reviewRequest) (*model.CampaignModel, error) {
		return h.campaignLogic.RequestRevision(actor, id, req.Notes)
	}, "revision requested")
}

// Reject POST /campaigns/:id/reject
func (h *CampaignHandler) Reject(c *gin.Context) {
	h.transition(c, func(actor model.Actor, id int64, req reviewRequest) (*model.CampaignModel, error) {
		return h.campaignLogic.Reject(actor, id, req.Notes)
	}, "campaign rejected")
}

// Activate POST /campaigns/:id/activate
func (h *CampaignHandler) Activate(c *gin.Context) {
	h.transition(c, func(actor model.Actor, id int64, _ reviewRequest) (*model.CampaignModel, error) {
		return h.campaignLogic.Activate(actor, id)
	}, "campaign activated")
}

// Close POST /campaigns/:id/close
func (h *CampaignHandler) Close(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	id, ok := PathId(c, "id")
	if !ok {
		return
	}
	var req struct {
		Outcome model.CampaignStatus `json:"outcome"`
		Reason  string               `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignLogic.Close(actor, id, req.Outcome, req.Reason)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "campaign closed", campaign)
}

// GetCampaignStats GET /campaigns/:id/stats
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, ok := PathId(c, "id")
	if !ok {
		return
	}
	stats, err := h.campaignLogic.CampaignStats(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", stats)
}

type reviewRequest struct {
	Notes string `json:"notes"`
}

// transition factors the shared shape of the review endpoints: actor, id,
// optional notes body, one logic call.
func (h *CampaignHandler) transition(c *gin.Context, op func(model.Actor, int64, reviewRequest) (*model.CampaignModel, error), message string) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	id, ok := PathId(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	campaign, err := op(actor, id, req)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, message, campaign)
}
