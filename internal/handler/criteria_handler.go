package handler

import (
	"net/http"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/config"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logic"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CriteriaHandler struct {
	criteriaLogic *logic.CriteriaLogic
	matchingLogic *logic.MatchingLogic
}

func NewCriteriaHandler(db *gorm.DB, cfg config.MatchingConfig) *CriteriaHandler {
	criteriaLogic := logic.NewCriteriaLogic(db)
	return &CriteriaHandler{
		criteriaLogic: criteriaLogic,
		matchingLogic: logic.NewMatchingLogic(db, criteriaLogic, cfg.PoolSize, cfg.MaxResults),
	}
}

// UpsertCriteria PUT /investors/:id/criteria
func (h *CriteriaHandler) UpsertCriteria(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	investorId, ok := PathId(c, "id")
	if !ok {
		return
	}
	if actor.Role != model.RoleInvestor || actor.Id != investorId {
		ErrorResponse(c, http.StatusForbidden, "criteria belong to the acting investor")
		return
	}

	var input logic.CriteriaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	criteria, err := h.criteriaLogic.UpsertCriteria(actor, input)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "criteria saved", criteria)
}

// GetCriteria GET /investors/:id/criteria
func (h *CriteriaHandler) GetCriteria(c *gin.Context) {
	investorId, ok := PathId(c, "id")
	if !ok {
		return
	}
	criteria, err := h.criteriaLogic.GetCriteria(investorId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", criteria)
}

// GetMatches GET /investors/:id/matches
func (h *CriteriaHandler) GetMatches(c *gin.Context) {
	actor, ok := ActorFromRequest(c)
	if !ok {
		return
	}
	investorId, ok := PathId(c, "id")
	if !ok {
		return
	}
	if actor.Role != model.RoleInvestor || actor.Id != investorId {
		ErrorResponse(c, http.StatusForbidden, "matches belong to the acting investor")
		return
	}

	matches, err := h.matchingLogic.GetEligibleCampaigns(investorId)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", matches)
}
