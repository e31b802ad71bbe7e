package logic

import (
	"sort"
	"sync"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/apperr"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logger"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/scoring"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// MatchingLogic selects and ranks active campaigns for an investor. The
// scoring engine is pure, so the per-campaign evaluations fan out over a
// goroutine pool and are collected without coordination beyond a wait
// group.
type MatchingLogic struct {
	db         *gorm.DB
	engine     *scoring.Engine
	criteria   *CriteriaLogic
	poolSize   int
	maxResults int
}

// NewMatchingLogic creates the matching service.
func NewMatchingLogic(db *gorm.DB, criteria *CriteriaLogic, poolSize, maxResults int) *MatchingLogic {
	if poolSize < 1 {
		poolSize = 1
	}
	if maxResults < 1 {
		maxResults = 50
	}
	return &MatchingLogic{
		db:         db,
		engine:     scoring.NewEngine(),
		criteria:   criteria,
		poolSize:   poolSize,
		maxResults: maxResults,
	}
}

// CampaignMatch pairs a campaign with its match result for one investor.
type CampaignMatch struct {
	Campaign   model.CampaignModel   `json:"campaign"`
	Enterprise model.EnterpriseModel `json:"enterprise"`
	Score      float64               `json:"score"`
	Breakdown  map[string]float64    `json:"breakdown"`
}

// GetEligibleCampaigns returns the active campaigns the investor's
// criteria admit, ranked by score, excluding campaigns the investor has
// already acted on.
func (l *MatchingLogic) GetEligibleCampaigns(investorId int64) ([]CampaignMatch, error) {
	criteria, err := l.criteria.GetCriteria(investorId)
	if err != nil {
		return nil, err
	}

	var campaigns []model.CampaignModel
	if err := l.db.Where("status = ?", model.CampaignStatusActive).Find(&campaigns).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list active campaigns")
	}
	if len(campaigns) == 0 {
		return []CampaignMatch{}, nil
	}

	enterprises, err := l.loadEnterprises(campaigns)
	if err != nil {
		return nil, err
	}
	acted, err := l.actedCampaignIds(investorId)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(l.poolSize)
	if err != nil {
		return nil, apperr.Internal(err, "failed to create scoring pool")
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		matches []CampaignMatch
	)

	for i := range campaigns {
		campaign := campaigns[i]
		if acted[campaign.Id] {
			continue
		}
		enterprise, ok := enterprises[campaign.EnterpriseId]
		if !ok {
			logger.Warn("Campaign %d references missing enterprise %d, skipped", campaign.Id, campaign.EnterpriseId)
			continue
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			result := l.engine.Score(&enterprise, &campaign, criteria)
			if !result.Eligible {
				return
			}
			mu.Lock()
			matches = append(matches, CampaignMatch{
				Campaign:   campaign,
				Enterprise: enterprise,
				Score:      result.Score,
				Breakdown:  result.Breakdown,
			})
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			// Let the in-flight scorers drain before the deferred release
			// tears the pool down under them.
			wg.Wait()
			return nil, apperr.Internal(submitErr, "failed to submit scoring task")
		}
	}
	wg.Wait()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Campaign.Id < matches[j].Campaign.Id
	})
	if len(matches) > l.maxResults {
		matches = matches[:l.maxResults]
	}
	return matches, nil
}

// loadEnterprises fetches the enterprise snapshot for each campaign owner.
func (l *MatchingLogic) loadEnterprises(campaigns []model.CampaignModel) (map[int64]model.EnterpriseModel, error) {
	ids := make([]int64, 0, len(campaigns))
	seen := make(map[int64]bool, len(campaigns))
	for _, c := range campaigns {
		if !seen[c.EnterpriseId] {
			seen[c.EnterpriseId] = true
			ids = append(ids, c.EnterpriseId)
		}
	}

	var enterprises []model.EnterpriseModel
	if err := l.db.Where("id IN ?", ids).Find(&enterprises).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load enterprises")
	}
	byId := make(map[int64]model.EnterpriseModel, len(enterprises))
	for _, e := range enterprises {
		byId[e.Id] = e
	}
	return byId, nil
}

// actedCampaignIds returns the campaigns the investor already holds a live
// record on. Withdrawn and rejected records do not hide a campaign.
func (l *MatchingLogic) actedCampaignIds(investorId int64) (map[int64]bool, error) {
	var ids []int64
	err := l.db.Model(&model.InterestRecordModel{}).
		Where("investor_id = ? AND status NOT IN ?", investorId,
			[]model.InterestStatus{model.InterestStatusWithdrawn, model.InterestStatusRejected}).
		Pluck("campaign_id", &ids).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to load interest history")
	}
	acted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		acted[id] = true
	}
	return acted, nil
}
