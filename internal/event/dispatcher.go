package event

import (
	"encoding/json"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/logger"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dispatcher emits lifecycle and match events for the notification
// service. Emission is fire-and-forget: a failed write is logged and never
// rolls back the state transition that produced it.
type Dispatcher struct {
	db *gorm.DB
}

// NewDispatcher creates an event dispatcher.
func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// Emit records one domain event in the outbox.
func (d *Dispatcher) Emit(eventType string, campaignId int64, actor model.Actor, payload interface{}) {
	data := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to encode payload for event %s: %v", eventType, err)
		} else {
			data = string(b)
		}
	}

	record := model.DomainEventModel{
		Id:         uuid.NewString(),
		EventType:  eventType,
		CampaignId: campaignId,
		ActorRole:  string(actor.Role),
		ActorId:    actor.Id,
		Data:       data,
	}

	if err := d.db.Create(&record).Error; err != nil {
		logger.Error("Failed to record event %s for campaign %d: %v", eventType, campaignId, err)
		return
	}

	logger.Info("Emitted event %s for campaign %d by %s %d", eventType, campaignId, actor.Role, actor.Id)
}
