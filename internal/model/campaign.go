package model

import (
	"time"
)

// CampaignModel is a funding campaign published by an enterprise.
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Ownership, immutable after creation
	EnterpriseId int64 `json:"enterprise_id" gorm:"not null;index"`

	// Terms
	Title         string       `json:"title" gorm:"not null" binding:"required"`
	Description   string       `json:"description" gorm:"type:text"`
	CampaignType  CampaignType `json:"campaign_type" gorm:"not null"`
	TargetAmount  int64        `json:"target_amount" gorm:"not null" binding:"required,min=1"`
	MinInvestment int64        `json:"min_investment" gorm:"default:0"`
	MaxInvestment int64        `json:"max_investment" gorm:"default:0"` // 0 = no cap
	StartTime     time.Time    `json:"start_time"`
	EndTime       time.Time    `json:"end_time"`

	// Funding state, owned by the interest logic
	AmountRaised  int64 `json:"amount_raised" gorm:"default:0"`
	InvestorCount int64 `json:"investor_count" gorm:"default:0"`
	ViewsCount    int64 `json:"views_count" gorm:"default:0"`

	// Review state
	Status         CampaignStatus `json:"status" gorm:"default:'draft';index"`
	IsVetted       bool           `json:"is_vetted" gorm:"default:false"`
	VettedBy       int64          `json:"vetted_by" gorm:"default:0"`
	VettedAt       *time.Time     `json:"vetted_at"`
	VettingNotes   string         `json:"vetting_notes" gorm:"type:text"`
	RevisionNotes  string         `json:"revision_notes" gorm:"type:text"`
	RevisionCount  int            `json:"revision_count" gorm:"default:0"`
	ReadinessScore float64        `json:"readiness_score" gorm:"default:0"` // snapshot taken at submission
	CancelReason   string         `json:"cancel_reason"`

	// Optimistic lock
	Version int64 `json:"version" gorm:"default:0"`
}

// TableName overrides the table name.
func (CampaignModel) TableName() string {
	return "campaign"
}

// CampaignType campaign funding instrument
type CampaignType string

const (
	CampaignTypeEquity CampaignType = "equity"
	CampaignTypeDebt   CampaignType = "debt"
	CampaignTypeGrant  CampaignType = "grant"
	CampaignTypeHybrid CampaignType = "hybrid"
)

// ValidCampaignType reports whether t is a known campaign type.
func ValidCampaignType(t CampaignType) bool {
	switch t {
	case CampaignTypeEquity, CampaignTypeDebt, CampaignTypeGrant, CampaignTypeHybrid:
		return true
	}
	return false
}

// CampaignStatus campaign lifecycle status
type CampaignStatus string

const (
	CampaignStatusDraft            CampaignStatus = "draft"             // editable by the enterprise
	CampaignStatusSubmitted        CampaignStatus = "submitted"         // waiting for admin review
	CampaignStatusRevisionRequired CampaignStatus = "revision_required" // sent back with notes
	CampaignStatusApproved         CampaignStatus = "approved"          // vetted, not yet visible
	CampaignStatusActive           CampaignStatus = "active"            // visible to investors
	CampaignStatusCompleted        CampaignStatus = "completed"         // terminal
	CampaignStatusRejected         CampaignStatus = "rejected"          // terminal
	CampaignStatusCancelled        CampaignStatus = "cancelled"         // terminal
)

// Terminal reports whether s accepts no further transitions.
func (s CampaignStatus) Terminal() bool {
	switch s {
	case CampaignStatusCompleted, CampaignStatusRejected, CampaignStatusCancelled:
		return true
	}
	return false
}

// ProgressPercentage raised amount as a percentage of the target.
func (c *CampaignModel) ProgressPercentage() float64 {
	if c.TargetAmount <= 0 {
		return 0
	}
	return float64(c.AmountRaised) / float64(c.TargetAmount) * 100
}
