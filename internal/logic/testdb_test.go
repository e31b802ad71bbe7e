package logic

import (
	"testing"
	"time"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/database"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// testDB opens a private in-memory database migrated with the full schema.
// Connections are capped at one so every query sees the same memory store.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type fixture struct {
	db         *gorm.DB
	campaigns  *CampaignLogic
	criteria   *CriteriaLogic
	interests  *InterestLogic
	matching   *MatchingLogic
	enterprise model.Actor
	admin      model.Actor
	investor   model.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)
	dispatcher := event.NewDispatcher(db)
	criteria := NewCriteriaLogic(db)

	f := &fixture{
		db:         db,
		campaigns:  NewCampaignLogic(db, dispatcher),
		criteria:   criteria,
		interests:  NewInterestLogic(db, dispatcher),
		matching:   NewMatchingLogic(db, criteria, 4, 50),
		enterprise: model.Actor{Role: model.RoleEnterprise, Id: 1},
		admin:      model.Actor{Role: model.RoleAdmin, Id: 900},
		investor:   model.Actor{Role: model.RoleInvestor, Id: 500},
	}
	f.seedEnterprise(t, 1, "agriculture", "small", "Gasabo", 72)
	return f
}

func (f *fixture) seedEnterprise(t *testing.T, id int64, sector, size, district string, readiness float64) {
	t.Helper()
	enterprise := model.EnterpriseModel{
		Id:             id,
		Name:           "Enterprise",
		Sector:         sector,
		Size:           size,
		District:       district,
		ReadinessScore: readiness,
	}
	if err := f.db.Create(&enterprise).Error; err != nil {
		t.Fatalf("failed to seed enterprise: %v", err)
	}
}

func validInput() CampaignInput {
	return CampaignInput{
		Title:         "Irrigation expansion",
		Description:   "Drip irrigation for 40 hectares",
		CampaignType:  model.CampaignTypeEquity,
		TargetAmount:  10_000_000,
		MinInvestment: 1_000_000,
		MaxInvestment: 5_000_000,
		StartTime:     time.Now(),
		EndTime:       time.Now().Add(30 * 24 * time.Hour),
	}
}

// draftCampaign seeds a draft owned by the fixture enterprise.
func (f *fixture) draftCampaign(t *testing.T) *model.CampaignModel {
	t.Helper()
	campaign, err := f.campaigns.CreateCampaign(f.enterprise, validInput())
	if err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}
	return campaign
}

// activeCampaign walks a fresh campaign through submit, approve and
// activate.
func (f *fixture) activeCampaign(t *testing.T) *model.CampaignModel {
	t.Helper()
	campaign := f.draftCampaign(t)
	if _, err := f.campaigns.SubmitForReview(f.enterprise, campaign.Id); err != nil {
		t.Fatalf("failed to submit campaign: %v", err)
	}
	if _, err := f.campaigns.Approve(f.admin, campaign.Id, "looks solid"); err != nil {
		t.Fatalf("failed to approve campaign: %v", err)
	}
	activated, err := f.campaigns.Activate(f.enterprise, campaign.Id)
	if err != nil {
		t.Fatalf("failed to activate campaign: %v", err)
	}
	return activated
}

func (f *fixture) reload(t *testing.T, id int64) *model.CampaignModel {
	t.Helper()
	var campaign model.CampaignModel
	if err := f.db.First(&campaign, id).Error; err != nil {
		t.Fatalf("failed to reload campaign %d: %v", id, err)
	}
	return &campaign
}
