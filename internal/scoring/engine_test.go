package scoring

import (
	"math"
	"reflect"
	"testing"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
)

func activeCampaign() *model.CampaignModel {
	return &model.CampaignModel{
		Id:             1,
		Status:         model.CampaignStatusActive,
		TargetAmount:   10_000_000,
		ReadinessScore: 80,
	}
}

func agricultureEnterprise() *model.EnterpriseModel {
	return &model.EnterpriseModel{
		Id:       1,
		Sector:   "agriculture",
		Size:     "small",
		District: "Gasabo",
	}
}

func openCriteria() *model.InvestorCriteriaModel {
	return &model.InvestorCriteriaModel{
		InvestorId:        1,
		Sectors:           model.StringList{"agriculture"},
		MinFundingAmount:  1_000_000,
		MaxFundingAmount:  20_000_000,
		MinReadinessScore: 50,
	}
}

func TestScore_SectorMatch(t *testing.T) {
	engine := NewEngine()

	result := engine.Score(agricultureEnterprise(), activeCampaign(), openCriteria())

	if !result.Eligible {
		t.Fatalf("expected eligible, got reasons %v", result.Reasons)
	}
	// Binary component at full marks times its weight.
	if got := result.Breakdown["sector"]; got != 100*WeightSector {
		t.Errorf("expected sector points %v, got %v", 100*WeightSector, got)
	}
	if result.Score <= 0 || result.Score > 100 {
		t.Errorf("score out of range: %v", result.Score)
	}
}

func TestScore_SectorMismatchIneligible(t *testing.T) {
	engine := NewEngine()
	enterprise := agricultureEnterprise()
	enterprise.Sector = "technology"

	result := engine.Score(enterprise, activeCampaign(), openCriteria())

	if result.Eligible {
		t.Fatal("expected ineligible for sector mismatch")
	}
	if result.Score != 0 {
		t.Errorf("expected zero score, got %v", result.Score)
	}
	found := false
	for _, r := range result.Reasons {
		if r == "sector mismatch" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sector mismatch reason, got %v", result.Reasons)
	}
}

func TestScore_InactiveCampaignIneligible(t *testing.T) {
	engine := NewEngine()

	for _, status := range []model.CampaignStatus{
		model.CampaignStatusDraft,
		model.CampaignStatusSubmitted,
		model.CampaignStatusApproved,
		model.CampaignStatusCompleted,
	} {
		campaign := activeCampaign()
		campaign.Status = status
		result := engine.Score(agricultureEnterprise(), campaign, openCriteria())
		if result.Eligible {
			t.Errorf("status %s: expected ineligible", status)
		}
	}
}

func TestScore_AutoRejectOverridesWeightedScore(t *testing.T) {
	engine := NewEngine()
	criteria := openCriteria()
	criteria.MinReadinessScore = 60
	criteria.AutoRejectBelowScore = 40

	campaign := activeCampaign()
	campaign.ReadinessScore = 30 // perfect fit otherwise

	result := engine.Score(agricultureEnterprise(), campaign, criteria)

	if result.Eligible {
		t.Fatal("expected auto-reject to gate out the campaign")
	}
	if result.Score != 0 {
		t.Errorf("expected zero score on gate failure, got %v", result.Score)
	}
}

func TestScore_FundingRangeGate(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		target   int64
		eligible bool
	}{
		{"below minimum", 500_000, false},
		{"at minimum", 1_000_000, true},
		{"midpoint", 10_500_000, true},
		{"at maximum", 20_000_000, true},
		{"above maximum", 25_000_000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := activeCampaign()
			campaign.TargetAmount = tt.target
			result := engine.Score(agricultureEnterprise(), campaign, openCriteria())
			if result.Eligible != tt.eligible {
				t.Errorf("target %d: expected eligible=%v, reasons %v", tt.target, tt.eligible, result.Reasons)
			}
		})
	}
}

func TestScore_TriangularFundingFit(t *testing.T) {
	engine := NewEngine()
	criteria := openCriteria()
	criteria.MinFundingAmount = 1_000_000
	criteria.MaxFundingAmount = 21_000_000 // midpoint 11M, half-width 10M

	tests := []struct {
		target int64
		points float64 // unweighted component value
	}{
		{11_000_000, 100},
		{16_000_000, 50},
		{6_000_000, 50},
		{1_000_000, 0},
		{21_000_000, 0},
	}

	for _, tt := range tests {
		campaign := activeCampaign()
		campaign.TargetAmount = tt.target
		result := engine.Score(agricultureEnterprise(), campaign, criteria)
		if !result.Eligible {
			t.Fatalf("target %d: unexpectedly ineligible: %v", tt.target, result.Reasons)
		}
		got := result.Breakdown["funding_fit"] / WeightFunding
		if math.Abs(got-tt.points) > 1e-9 {
			t.Errorf("target %d: expected funding component %v, got %v", tt.target, tt.points, got)
		}
	}
}

func TestScore_ReadinessNormalization(t *testing.T) {
	engine := NewEngine()
	criteria := openCriteria()
	criteria.MinReadinessScore = 50

	tests := []struct {
		readiness float64
		points    float64
	}{
		{50, 0},
		{75, 50},
		{100, 100},
		{30, 0}, // clamped, still eligible without auto-reject threshold
	}

	for _, tt := range tests {
		campaign := activeCampaign()
		campaign.ReadinessScore = tt.readiness
		result := engine.Score(agricultureEnterprise(), campaign, criteria)
		if !result.Eligible {
			t.Fatalf("readiness %v: unexpectedly ineligible: %v", tt.readiness, result.Reasons)
		}
		got := result.Breakdown["readiness"] / WeightReadiness
		if math.Abs(got-tt.points) > 1e-9 {
			t.Errorf("readiness %v: expected component %v, got %v", tt.readiness, tt.points, got)
		}
	}
}

func TestScore_EmptyFiltersScoreFullMarks(t *testing.T) {
	engine := NewEngine()
	criteria := &model.InvestorCriteriaModel{
		InvestorId:       2,
		MinFundingAmount: 1_000_000,
		MaxFundingAmount: 20_000_000,
	}

	result := engine.Score(agricultureEnterprise(), activeCampaign(), criteria)

	if !result.Eligible {
		t.Fatalf("expected eligible with empty filters, got %v", result.Reasons)
	}
	for _, component := range []string{"sector", "size", "geography"} {
		weight := map[string]float64{
			"sector":    WeightSector,
			"size":      WeightSize,
			"geography": WeightGeography,
		}[component]
		if got := result.Breakdown[component]; got != 100*weight {
			t.Errorf("%s: expected full marks, got %v", component, got)
		}
	}
}

func TestScore_CollectsAllGateFailures(t *testing.T) {
	engine := NewEngine()
	enterprise := agricultureEnterprise()
	enterprise.Sector = "technology"
	enterprise.District = "Musanze"

	criteria := openCriteria()
	criteria.GeographicFocus = model.StringList{"Gasabo", "Kicukiro"}

	result := engine.Score(enterprise, activeCampaign(), criteria)

	if result.Eligible {
		t.Fatal("expected ineligible")
	}
	if len(result.Reasons) != 2 {
		t.Errorf("expected both gate failures reported, got %v", result.Reasons)
	}
}

func TestScore_Deterministic(t *testing.T) {
	engine := NewEngine()
	enterprise := agricultureEnterprise()
	campaign := activeCampaign()
	criteria := openCriteria()

	first := engine.Score(enterprise, campaign, criteria)
	for i := 0; i < 10; i++ {
		again := engine.Score(enterprise, campaign, criteria)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %+v vs %+v", i, first, again)
		}
	}
}

func TestScore_WeightsSumToOne(t *testing.T) {
	sum := WeightSector + WeightSize + WeightGeography + WeightFunding + WeightReadiness
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v", sum)
	}
}
