package scheduler

import (
	"time"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/config"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logger"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logic"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignTimelineJob closes active campaigns whose end date has passed.
// Closing goes through the lifecycle manager so the transition table and
// the raised-amount freeze apply the same way as a manual close.
type CampaignTimelineJob struct {
	db            *gorm.DB
	campaignLogic *logic.CampaignLogic
	config        *config.Config
}

// NewCampaignTimelineJob creates the timeline job.
func NewCampaignTimelineJob(db *gorm.DB, dispatcher *event.Dispatcher, cfg *config.Config) *CampaignTimelineJob {
	return &CampaignTimelineJob{
		db:            db,
		campaignLogic: logic.NewCampaignLogic(db, dispatcher),
		config:        cfg,
	}
}

// GetName returns the job name.
func (j *CampaignTimelineJob) GetName() string {
	return "campaign_timeline_updater"
}

// GetSchedule returns the job schedule.
func (j *CampaignTimelineJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute runs one sweep.
func (j *CampaignTimelineJob) Execute() {
	logger.Info("Starting campaign timeline sweep")

	now := time.Now()
	var campaigns []model.CampaignModel
	err := j.db.Where("status = ? AND end_time <= ?", model.CampaignStatusActive, now).
		Find(&campaigns).Error
	if err != nil {
		logger.Error("Failed to fetch expired campaigns: %v", err)
		return
	}

	closedCount := 0
	for _, campaign := range campaigns {
		_, err := j.campaignLogic.Close(model.SystemActor, campaign.Id, model.CampaignStatusCompleted, "")
		if err != nil {
			// A concurrent close by the enterprise is fine; the next sweep
			// catches anything transient.
			logger.Warn("Failed to close campaign %d: %v", campaign.Id, err)
			continue
		}
		logger.Info("Closed campaign %d at end of timeline, raised %d of %d",
			campaign.Id, campaign.AmountRaised, campaign.TargetAmount)
		closedCount++
	}

	logger.Info("Campaign timeline sweep completed. Closed %d campaigns", closedCount)
}
