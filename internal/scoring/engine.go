package scoring

import (
	"fmt"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
)

// Component weights. They sum to 1.0; the funding-fit and readiness
// components are graded, the rest are binary.
const (
	WeightSector    = 0.25
	WeightSize      = 0.15
	WeightGeography = 0.15
	WeightFunding   = 0.20
	WeightReadiness = 0.25
)

// Engine scores campaigns against investor criteria. It is stateless and
// deterministic; the same inputs always produce the same result, so one
// instance may be shared across goroutines.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// MatchResult is the outcome of scoring one campaign for one investor.
// Eligibility gate failures are an expected outcome, reported here rather
// than as errors.
type MatchResult struct {
	Score     float64            `json:"score"` // 0-100
	Eligible  bool               `json:"eligible"`
	Reasons   []string           `json:"reasons,omitempty"` // gate failures, empty when eligible
	Breakdown map[string]float64 `json:"breakdown"`         // weighted points per component
}

// Score evaluates the campaign/enterprise snapshot against the investor's
// criteria. Hard filters run first; any failure zeroes the score. The
// criteria are assumed valid — shape errors are rejected at write time by
// the criteria logic, never here.
func (e *Engine) Score(enterprise *model.EnterpriseModel, campaign *model.CampaignModel, criteria *model.InvestorCriteriaModel) MatchResult {
	result := MatchResult{Breakdown: make(map[string]float64)}

	// Eligibility gate. Every filter is evaluated so the reasons list is
	// complete, not just the first failure.
	if campaign.Status != model.CampaignStatusActive {
		result.Reasons = append(result.Reasons, fmt.Sprintf("campaign is %s, not active", campaign.Status))
	}
	if len(criteria.Sectors) > 0 && !criteria.Sectors.Contains(enterprise.Sector) {
		result.Reasons = append(result.Reasons, "sector mismatch")
	}
	if len(criteria.PreferredSizes) > 0 && !criteria.PreferredSizes.Contains(enterprise.Size) {
		result.Reasons = append(result.Reasons, "enterprise size mismatch")
	}
	if len(criteria.GeographicFocus) > 0 && !criteria.GeographicFocus.Contains(enterprise.District) {
		result.Reasons = append(result.Reasons, "outside geographic focus")
	}
	if campaign.TargetAmount < criteria.MinFundingAmount ||
		(criteria.MaxFundingAmount > 0 && campaign.TargetAmount > criteria.MaxFundingAmount) {
		result.Reasons = append(result.Reasons, "target amount outside funding range")
	}
	if criteria.AutoRejectBelowScore > 0 && campaign.ReadinessScore < criteria.AutoRejectBelowScore {
		result.Reasons = append(result.Reasons, fmt.Sprintf("readiness score %.1f below auto-reject threshold %.1f",
			campaign.ReadinessScore, criteria.AutoRejectBelowScore))
	}

	if len(result.Reasons) > 0 {
		return result
	}

	result.Eligible = true
	result.Breakdown["sector"] = sectorComponent(enterprise, criteria) * WeightSector
	result.Breakdown["size"] = sizeComponent(enterprise, criteria) * WeightSize
	result.Breakdown["geography"] = geographyComponent(enterprise, criteria) * WeightGeography
	result.Breakdown["funding_fit"] = fundingFitComponent(campaign, criteria) * WeightFunding
	result.Breakdown["readiness"] = readinessComponent(campaign, criteria) * WeightReadiness

	for _, points := range result.Breakdown {
		result.Score += points
	}
	return result
}

// sectorComponent binary: the gate already rejected mismatches, so a
// non-empty sector list implies a hit. An empty list scores full marks.
func sectorComponent(enterprise *model.EnterpriseModel, criteria *model.InvestorCriteriaModel) float64 {
	if len(criteria.Sectors) == 0 || criteria.Sectors.Contains(enterprise.Sector) {
		return 100
	}
	return 0
}

func sizeComponent(enterprise *model.EnterpriseModel, criteria *model.InvestorCriteriaModel) float64 {
	if len(criteria.PreferredSizes) == 0 || criteria.PreferredSizes.Contains(enterprise.Size) {
		return 100
	}
	return 0
}

func geographyComponent(enterprise *model.EnterpriseModel, criteria *model.InvestorCriteriaModel) float64 {
	if len(criteria.GeographicFocus) == 0 || criteria.GeographicFocus.Contains(enterprise.District) {
		return 100
	}
	return 0
}

// fundingFitComponent triangular: 100 at the midpoint of the investor's
// funding range, decaying linearly to 0 at either edge. With no upper
// bound there is no midpoint to aim for, so anything above the minimum
// scores full marks.
func fundingFitComponent(campaign *model.CampaignModel, criteria *model.InvestorCriteriaModel) float64 {
	min := float64(criteria.MinFundingAmount)
	max := float64(criteria.MaxFundingAmount)
	target := float64(campaign.TargetAmount)

	if max <= min {
		return 100
	}
	mid := (min + max) / 2
	half := (max - min) / 2
	distance := target - mid
	if distance < 0 {
		distance = -distance
	}
	if distance >= half {
		return 0
	}
	return (1 - distance/half) * 100
}

// readinessComponent normalizes the submission-time readiness score
// against [min_readiness_score, 100], clamped to [0, 100].
func readinessComponent(campaign *model.CampaignModel, criteria *model.InvestorCriteriaModel) float64 {
	floor := criteria.MinReadinessScore
	if floor >= 100 {
		if campaign.ReadinessScore >= 100 {
			return 100
		}
		return 0
	}
	normalized := (campaign.ReadinessScore - floor) / (100 - floor) * 100
	if normalized < 0 {
		return 0
	}
	if normalized > 100 {
		return 100
	}
	return normalized
}
