package logic

import (
	"errors"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/apperr"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"gorm.io/gorm"
)

// CriteriaLogic validates and stores investor matching criteria. Shape
// errors are rejected here, at write time, so the scoring engine never has
// to deal with malformed criteria.
type CriteriaLogic struct {
	db *gorm.DB
}

// NewCriteriaLogic creates the criteria store.
func NewCriteriaLogic(db *gorm.DB) *CriteriaLogic {
	return &CriteriaLogic{db: db}
}

// CriteriaInput carries the investor-editable criteria fields.
type CriteriaInput struct {
	Sectors              []string                 `json:"sectors"`
	PreferredSizes       []string                 `json:"preferred_sizes"`
	GeographicFocus      []string                 `json:"geographic_focus"`
	MinFundingAmount     int64                    `json:"min_funding_amount"`
	MaxFundingAmount     int64                    `json:"max_funding_amount"`
	MinReadinessScore    float64                  `json:"min_readiness_score"`
	AutoRejectBelowScore float64                  `json:"auto_reject_below_score"`
	RevenueMin           int64                    `json:"revenue_min"`
	RevenueMax           int64                    `json:"revenue_max"`
	RequiredDocuments    []model.RequiredDocument `json:"required_documents"`
}

// UpsertCriteria saves an investor's criteria, creating the row lazily on
// first save. Latest write wins; criteria are not versioned.
func (l *CriteriaLogic) UpsertCriteria(actor model.Actor, input CriteriaInput) (*model.InvestorCriteriaModel, error) {
	if actor.Role != model.RoleInvestor {
		return nil, apperr.Forbidden("only an investor can save matching criteria")
	}
	if err := validateCriteriaInput(&input); err != nil {
		return nil, err
	}

	var criteria model.InvestorCriteriaModel
	err := l.db.Where("investor_id = ?", actor.Id).First(&criteria).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err, "failed to load criteria")
	}

	criteria.InvestorId = actor.Id
	criteria.Sectors = model.StringList(input.Sectors)
	criteria.PreferredSizes = model.StringList(input.PreferredSizes)
	criteria.GeographicFocus = model.StringList(input.GeographicFocus)
	criteria.MinFundingAmount = input.MinFundingAmount
	criteria.MaxFundingAmount = input.MaxFundingAmount
	criteria.MinReadinessScore = input.MinReadinessScore
	criteria.AutoRejectBelowScore = input.AutoRejectBelowScore
	criteria.RevenueMin = input.RevenueMin
	criteria.RevenueMax = input.RevenueMax
	criteria.RequiredDocuments = model.DocumentList(input.RequiredDocuments)

	if err := l.db.Save(&criteria).Error; err != nil {
		return nil, apperr.Internal(err, "failed to save criteria")
	}
	return &criteria, nil
}

// GetCriteria returns an investor's saved criteria.
func (l *CriteriaLogic) GetCriteria(investorId int64) (*model.InvestorCriteriaModel, error) {
	var criteria model.InvestorCriteriaModel
	if err := l.db.Where("investor_id = ?", investorId).First(&criteria).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("criteria for investor", investorId)
		}
		return nil, apperr.Internal(err, "failed to load criteria")
	}
	return &criteria, nil
}

func validateCriteriaInput(input *CriteriaInput) error {
	if input.MinFundingAmount < 0 || input.MaxFundingAmount < 0 {
		return apperr.Validation("funding amounts cannot be negative")
	}
	if input.MaxFundingAmount > 0 && input.MaxFundingAmount < input.MinFundingAmount {
		return apperr.Validation("maximum funding amount cannot be below minimum funding amount")
	}
	if input.MinReadinessScore < 0 || input.MinReadinessScore > 100 {
		return apperr.Validation("minimum readiness score must be within [0, 100]")
	}
	if input.AutoRejectBelowScore < 0 || input.AutoRejectBelowScore > 100 {
		return apperr.Validation("auto-reject score must be within [0, 100]")
	}
	if input.AutoRejectBelowScore > 0 && input.AutoRejectBelowScore >= input.MinReadinessScore {
		return apperr.Validation("auto-reject score must be below the minimum readiness score")
	}
	if input.RevenueMin < 0 || input.RevenueMax < 0 {
		return apperr.Validation("revenue range cannot be negative")
	}
	if input.RevenueMax > 0 && input.RevenueMax < input.RevenueMin {
		return apperr.Validation("revenue range maximum cannot be below its minimum")
	}
	for i, doc := range input.RequiredDocuments {
		if doc.Name == "" {
			return apperr.Validation("required document %d has no name", i)
		}
	}
	return nil
}
