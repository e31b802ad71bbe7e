package model

import (
	"time"
)

// EnterpriseModel holds the enterprise attributes the matching core reads.
// The profile itself is managed elsewhere; this core never writes the row.
type EnterpriseModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name           string  `json:"name" gorm:"not null"`
	Sector         string  `json:"sector" gorm:"index"`
	Size           string  `json:"size"` // enterprise-size tag, e.g. micro/small/medium
	District       string  `json:"district"`
	AnnualRevenue  int64   `json:"annual_revenue" gorm:"default:0"`
	ReadinessScore float64 `json:"readiness_score" gorm:"default:0"`
}

// TableName overrides the table name.
func (EnterpriseModel) TableName() string {
	return "enterprise"
}
