package database

import (
	"fmt"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/config"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Migrate runs auto-migration for every model owned or read by this core.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.CampaignModel{},
		&model.EnterpriseModel{},
		&model.InvestorCriteriaModel{},
		&model.InterestRecordModel{},
		&model.DomainEventModel{},
	); err != nil {
		return err
	}

	// One live interest record per investor and campaign. Withdrawn and
	// rejected rows are audit history and stay out of the index, so a pair
	// can re-engage after letting go.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_interest_pair_live
		ON interest_record (campaign_id, investor_id)
		WHERE status NOT IN ('withdrawn','rejected')`).Error
}
