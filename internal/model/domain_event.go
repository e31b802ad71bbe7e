package model

import (
	"time"
)

// DomainEventModel is an outbox row for lifecycle and match events.
// The notification service consumes and marks them; this core only writes.
type DomainEventModel struct {
	Id        string    `json:"id" gorm:"primaryKey"` // uuid
	CreatedAt time.Time `json:"created_at"`

	EventType  string `json:"event_type" gorm:"not null;index"`
	CampaignId int64  `json:"campaign_id" gorm:"index"`
	ActorRole  string `json:"actor_role"`
	ActorId    int64  `json:"actor_id"`
	Data       string `json:"data" gorm:"type:text"`
	Processed  bool   `json:"processed" gorm:"default:false"`
}

// TableName overrides the table name.
func (DomainEventModel) TableName() string {
	return "domain_event"
}

// Lifecycle and match event types.
const (
	EventCampaignSubmitted        = "CampaignSubmitted"
	EventCampaignApproved         = "CampaignApproved"
	EventCampaignRevisionRequired = "CampaignRevisionRequested"
	EventCampaignRejected         = "CampaignRejected"
	EventCampaignActivated        = "CampaignActivated"
	EventCampaignClosed           = "CampaignClosed"
	EventCampaignReopened         = "CampaignReopened" // edit after approval sends it back to draft
	EventInterestExpressed        = "InterestExpressed"
	EventPledgeMade               = "PledgeMade"
	EventInterestAccepted         = "InterestAccepted"
	EventInterestRejected         = "InterestRejected"
	EventPaymentConfirmed         = "PaymentConfirmed"
	EventInterestWithdrawn        = "InterestWithdrawn"
)
