package model

import (
	"time"
)

// InterestRecordModel tracks one investor's relationship with one campaign,
// from expressed interest through pledge to confirmed payment.
type InterestRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// One live record per pair is enforced by a partial unique index
	// created in the migration; withdrawn and rejected rows stay behind
	// as audit history.
	CampaignId int64 `json:"campaign_id" gorm:"not null;index:idx_interest_pair"`
	InvestorId int64 `json:"investor_id" gorm:"not null;index:idx_interest_pair"`

	Status InterestStatus `json:"status" gorm:"default:'interested';index"`

	// Amount pledged by the investor; 0 until Pledge.
	CommittedAmount int64 `json:"committed_amount" gorm:"default:0"`

	// Flipped exactly once by ConfirmPayment; guards the amount_raised credit.
	PaymentReceived bool `json:"payment_received" gorm:"default:false"`

	InterestedAt time.Time  `json:"interested_at"`
	ApprovedAt   *time.Time `json:"approved_at"` // enterprise acceptance timestamp
	CommittedAt  *time.Time `json:"committed_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	WithdrawnAt  *time.Time `json:"withdrawn_at"`
	RejectedAt   *time.Time `json:"rejected_at"`

	Version int64 `json:"version" gorm:"default:0"`
}

// TableName overrides the table name.
func (InterestRecordModel) TableName() string {
	return "interest_record"
}

// InterestStatus investor-campaign relationship status
type InterestStatus string

const (
	InterestStatusInterested InterestStatus = "interested"
	InterestStatusApproved   InterestStatus = "approved"  // enterprise accepted the interest
	InterestStatusCommitted  InterestStatus = "committed" // amount pledged
	InterestStatusCompleted  InterestStatus = "completed" // payment confirmed, terminal
	InterestStatusWithdrawn  InterestStatus = "withdrawn" // terminal
	InterestStatusRejected   InterestStatus = "rejected"  // terminal
)

// Terminal reports whether s accepts no further transitions.
func (s InterestStatus) Terminal() bool {
	switch s {
	case InterestStatusCompleted, InterestStatusWithdrawn, InterestStatusRejected:
		return true
	}
	return false
}

// Live reports whether the record still occupies the investor's slot
// on the campaign.
func (s InterestStatus) Live() bool {
	switch s {
	case InterestStatusWithdrawn, InterestStatusRejected:
		return false
	}
	return true
}
