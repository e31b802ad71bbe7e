package scheduler

import (
	"github.com/alain-michael/Isonga-Platform-sub001/internal/config"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager runs the background jobs.
type Manager struct {
	scheduler  gocron.Scheduler
	db         *gorm.DB
	dispatcher *event.Dispatcher
	config     *config.Config
}

// NewManager creates the job manager.
func NewManager(db *gorm.DB, dispatcher *event.Dispatcher, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler:  s,
		db:         db,
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// Start creates a manager, registers all jobs and starts the scheduler.
func Start(db *gorm.DB, dispatcher *event.Dispatcher, cfg *config.Config) *Manager {
	manager := NewManager(db, dispatcher, cfg)
	manager.RegisterJobs()
	manager.scheduler.Start()
	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs registers all jobs.
func (m *Manager) RegisterJobs() {
	job := NewCampaignTimelineJob(m.db, m.dispatcher, m.config)
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop shuts the scheduler down.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
