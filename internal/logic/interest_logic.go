package logic

import (
	"errors"
	"time"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/apperr"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logger"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"gorm.io/gorm"
)

// InterestLogic owns the investor-campaign relationship machine and the
// amount_raised invariant: the campaign total moves exactly once per
// record, when payment confirmation flips the payment_received flag.
type InterestLogic struct {
	db         *gorm.DB
	dispatcher *event.Dispatcher
}

// NewInterestLogic creates the interest/commitment manager.
func NewInterestLogic(db *gorm.DB, dispatcher *event.Dispatcher) *InterestLogic {
	return &InterestLogic{db: db, dispatcher: dispatcher}
}

// ExpressInterest registers an investor's interest in an active campaign.
// Idempotent: an existing live record for the pair is returned as-is.
func (l *InterestLogic) ExpressInterest(actor model.Actor, campaignId int64) (*model.InterestRecordModel, error) {
	if actor.Role != model.RoleInvestor {
		return nil, apperr.Forbidden("only an investor can express interest")
	}

	var campaign model.CampaignModel
	if err := l.db.First(&campaign, campaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("campaign", campaignId)
		}
		return nil, apperr.Internal(err, "failed to load campaign")
	}
	if campaign.Status != model.CampaignStatusActive {
		return nil, apperr.Validation("campaign is %s, interest requires an active campaign", campaign.Status)
	}

	if existing, err := l.liveRecord(campaignId, actor.Id); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	record := model.InterestRecordModel{
		CampaignId:   campaignId,
		InvestorId:   actor.Id,
		Status:       model.InterestStatusInterested,
		InterestedAt: time.Now(),
	}
	if err := l.db.Create(&record).Error; err != nil {
		// A concurrent call may have taken the live slot between the read
		// and this insert; the unique index surfaces that as a create
		// error. Return the winning record, same as the read-path branch.
		if existing, lerr := l.liveRecord(campaignId, actor.Id); lerr == nil && existing != nil {
			return existing, nil
		}
		return nil, apperr.Internal(err, "failed to create interest record")
	}
	l.dispatcher.Emit(model.EventInterestExpressed, campaignId, actor, nil)
	return &record, nil
}

// Pledge sets the amount the investor commits to invest. Valid while the
// record is interested or approved; the amount must satisfy the campaign's
// investment bounds. Pledging never touches amount_raised.
func (l *InterestLogic) Pledge(actor model.Actor, recordId, amount int64) (*model.InterestRecordModel, error) {
	record, err := l.getRecord(recordId)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleInvestor || actor.Id != record.InvestorId {
		return nil, apperr.Forbidden("interest record %d does not belong to %s %d", recordId, actor.Role, actor.Id)
	}
	if record.Status != model.InterestStatusInterested && record.Status != model.InterestStatusApproved {
		return nil, apperr.InvalidTransition(string(record.Status), string(model.InterestStatusCommitted))
	}

	var campaign model.CampaignModel
	if err := l.db.First(&campaign, record.CampaignId).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load campaign")
	}
	if campaign.Status != model.CampaignStatusActive {
		return nil, apperr.Validation("campaign is %s, pledging requires an active campaign", campaign.Status)
	}
	if amount <= 0 {
		return nil, apperr.Validation("pledge amount must be greater than zero")
	}
	if amount < campaign.MinInvestment {
		return nil, apperr.Validation("pledge amount %d is below the minimum investment %d", amount, campaign.MinInvestment)
	}
	if campaign.MaxInvestment > 0 && amount > campaign.MaxInvestment {
		return nil, apperr.Validation("pledge amount %d exceeds the maximum investment %d", amount, campaign.MaxInvestment)
	}

	now := time.Now()
	if err := l.commit(record, map[string]interface{}{
		"status":           model.InterestStatusCommitted,
		"committed_amount": amount,
		"committed_at":     &now,
	}); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventPledgeMade, record.CampaignId, actor, map[string]int64{"amount": amount})
	return l.getRecord(recordId)
}

// Accept records the enterprise's acceptance of an investor's interest.
// On an interested record this advances it to approved; on a record that
// was pledged straight from interested it sets the acceptance timestamp
// without changing status. Acceptance is required before payment can be
// confirmed.
func (l *InterestLogic) Accept(actor model.Actor, recordId int64) (*model.InterestRecordModel, error) {
	record, _, err := l.enterpriseTarget(actor, recordId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch record.Status {
	case model.InterestStatusInterested:
		if err := l.commit(record, map[string]interface{}{
			"status":      model.InterestStatusApproved,
			"approved_at": &now,
		}); err != nil {
			return nil, err
		}
	case model.InterestStatusCommitted:
		if record.ApprovedAt != nil {
			return record, nil // already accepted, no-op
		}
		if err := l.commit(record, map[string]interface{}{
			"approved_at": &now,
		}); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.InvalidTransition(string(record.Status), string(model.InterestStatusApproved))
	}
	l.dispatcher.Emit(model.EventInterestAccepted, record.CampaignId, actor, nil)
	return l.getRecord(recordId)
}

// Reject declines an investor's interest. Terminal.
func (l *InterestLogic) Reject(actor model.Actor, recordId int64) (*model.InterestRecordModel, error) {
	record, _, err := l.enterpriseTarget(actor, recordId)
	if err != nil {
		return nil, err
	}
	if record.Status.Terminal() {
		return nil, apperr.InvalidTransition(string(record.Status), string(model.InterestStatusRejected))
	}

	now := time.Now()
	if err := l.commit(record, map[string]interface{}{
		"status":      model.InterestStatusRejected,
		"rejected_at": &now,
	}); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventInterestRejected, record.CampaignId, actor, nil)
	return l.getRecord(recordId)
}

// ConfirmPayment marks the pledged funds as received and credits the
// campaign total. The credit is guarded by a compare-and-set on the
// payment_received flag, so a retried confirmation is a no-op rather than
// a double count. The flag flip and the campaign increment share one
// transaction.
func (l *InterestLogic) ConfirmPayment(actor model.Actor, recordId int64) (*model.InterestRecordModel, error) {
	record, _, err := l.enterpriseTarget(actor, recordId)
	if err != nil {
		return nil, err
	}
	if record.PaymentReceived {
		return record, nil // retry of a confirmed payment, no-op
	}
	if record.Status != model.InterestStatusCommitted {
		return nil, apperr.InvalidTransition(string(record.Status), string(model.InterestStatusCompleted))
	}
	if record.ApprovedAt == nil {
		return nil, apperr.Validation("interest must be accepted by the enterprise before payment confirmation")
	}

	now := time.Now()
	err = l.db.Transaction(func(tx *gorm.DB) error {
		// Re-read the campaign inside the transaction: once it closes, its
		// totals are frozen and late confirmations must not credit them.
		var campaign model.CampaignModel
		if err := tx.First(&campaign, record.CampaignId).Error; err != nil {
			return apperr.Internal(err, "failed to load campaign")
		}
		if campaign.Status.Terminal() {
			return apperr.InvalidTransition(string(campaign.Status), "payment confirmation")
		}

		// CAS keyed on the record flag. Zero rows means a concurrent
		// confirmation won; the campaign total was already credited.
		res := tx.Model(&model.InterestRecordModel{}).
			Where("id = ? AND payment_received = ?", record.Id, false).
			Updates(map[string]interface{}{
				"payment_received": true,
				"status":           model.InterestStatusCompleted,
				"completed_at":     &now,
				"version":          record.Version + 1,
			})
		if res.Error != nil {
			return apperr.Internal(res.Error, "failed to confirm payment")
		}
		if res.RowsAffected == 0 {
			return nil
		}

		res = tx.Model(&model.CampaignModel{}).
			Where("id = ?", record.CampaignId).
			Updates(map[string]interface{}{
				"amount_raised":  gorm.Expr("amount_raised + ?", record.CommittedAmount),
				"investor_count": gorm.Expr("investor_count + 1"),
			})
		if res.Error != nil {
			return apperr.Internal(res.Error, "failed to credit campaign total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.dispatcher.Emit(model.EventPaymentConfirmed, record.CampaignId, actor, map[string]int64{
		"record_id": record.Id,
		"amount":    record.CommittedAmount,
	})
	logger.Info("Payment confirmed for record %d, campaign %d credited %d",
		record.Id, record.CampaignId, record.CommittedAmount)
	return l.getRecord(recordId)
}

// Withdraw releases the investor's slot on the campaign. Valid from any
// live state until payment has been confirmed.
func (l *InterestLogic) Withdraw(actor model.Actor, recordId int64) (*model.InterestRecordModel, error) {
	record, err := l.getRecord(recordId)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleInvestor || actor.Id != record.InvestorId {
		return nil, apperr.Forbidden("interest record %d does not belong to %s %d", recordId, actor.Role, actor.Id)
	}
	if record.Status.Terminal() || record.PaymentReceived {
		return nil, apperr.InvalidTransition(string(record.Status), string(model.InterestStatusWithdrawn))
	}

	now := time.Now()
	if err := l.commit(record, map[string]interface{}{
		"status":       model.InterestStatusWithdrawn,
		"withdrawn_at": &now,
	}); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventInterestWithdrawn, record.CampaignId, actor, nil)
	return l.getRecord(recordId)
}

// ListForCampaign returns a campaign's interest records for its owning
// enterprise. Committed amounts stay hidden until the enterprise has
// accepted the interest.
func (l *InterestLogic) ListForCampaign(actor model.Actor, campaignId int64) ([]model.InterestRecordModel, error) {
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, campaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("campaign", campaignId)
		}
		return nil, apperr.Internal(err, "failed to load campaign")
	}
	if actor.Role != model.RoleAdmin {
		if err := requireOwner(actor, &campaign); err != nil {
			return nil, err
		}
	}

	var records []model.InterestRecordModel
	if err := l.db.Where("campaign_id = ?", campaignId).
		Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list interest records")
	}
	for i := range records {
		if records[i].ApprovedAt == nil {
			records[i].CommittedAmount = 0
		}
	}
	return records, nil
}

// ListForInvestor returns an investor's own records across campaigns.
func (l *InterestLogic) ListForInvestor(actor model.Actor, investorId int64) ([]model.InterestRecordModel, error) {
	if actor.Role != model.RoleAdmin && (actor.Role != model.RoleInvestor || actor.Id != investorId) {
		return nil, apperr.Forbidden("cannot read records of investor %d", investorId)
	}
	var records []model.InterestRecordModel
	if err := l.db.Where("investor_id = ?", investorId).
		Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list interest records")
	}
	return records, nil
}

// liveRecord returns the pair's non-withdrawn, non-rejected record, if any.
func (l *InterestLogic) liveRecord(campaignId, investorId int64) (*model.InterestRecordModel, error) {
	var record model.InterestRecordModel
	err := l.db.Where("campaign_id = ? AND investor_id = ? AND status NOT IN ?",
		campaignId, investorId,
		[]model.InterestStatus{model.InterestStatusWithdrawn, model.InterestStatusRejected}).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to query interest record")
	}
	return &record, nil
}

// enterpriseTarget loads a record for an enterprise-initiated action and
// verifies the actor owns the record's campaign.
func (l *InterestLogic) enterpriseTarget(actor model.Actor, recordId int64) (*model.InterestRecordModel, *model.CampaignModel, error) {
	record, err := l.getRecord(recordId)
	if err != nil {
		return nil, nil, err
	}
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, record.CampaignId).Error; err != nil {
		return nil, nil, apperr.Internal(err, "failed to load campaign")
	}
	if err := requireOwner(actor, &campaign); err != nil {
		return nil, nil, err
	}
	return record, &campaign, nil
}

func (l *InterestLogic) getRecord(id int64) (*model.InterestRecordModel, error) {
	var record model.InterestRecordModel
	if err := l.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("interest record", id)
		}
		return nil, apperr.Internal(err, "failed to load interest record")
	}
	return &record, nil
}

// commit writes updates through the record's optimistic version check.
func (l *InterestLogic) commit(record *model.InterestRecordModel, updates map[string]interface{}) error {
	updates["version"] = record.Version + 1
	res := l.db.Model(&model.InterestRecordModel{}).
		Where("id = ? AND version = ?", record.Id, record.Version).
		Updates(updates)
	if res.Error != nil {
		return apperr.Internal(res.Error, "failed to update interest record")
	}
	if res.RowsAffected == 0 {
		return apperr.ConcurrencyConflict("interest record", record.Id)
	}
	return nil
}
