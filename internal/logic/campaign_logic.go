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

// campaignTransitions is the authoritative transition table. Any requested
// status change not listed here is rejected, so status branching lives in
// exactly one place.
var campaignTransitions = map[model.CampaignStatus][]model.CampaignStatus{
	model.CampaignStatusDraft:            {model.CampaignStatusSubmitted},
	model.CampaignStatusSubmitted:        {model.CampaignStatusApproved, model.CampaignStatusRevisionRequired, model.CampaignStatusRejected},
	model.CampaignStatusRevisionRequired: {model.CampaignStatusSubmitted},
	model.CampaignStatusApproved:         {model.CampaignStatusActive, model.CampaignStatusDraft},
	model.CampaignStatusActive:           {model.CampaignStatusCompleted, model.CampaignStatusCancelled, model.CampaignStatusDraft},
}

// canTransition reports whether the table allows from → to.
func canTransition(from, to model.CampaignStatus) bool {
	for _, allowed := range campaignTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DocumentChecker is the external document-requirement collaborator,
// consulted as an optional gate before activation.
type DocumentChecker interface {
	MissingDocuments(campaignId int64) ([]string, error)
}

// CampaignLogic owns the campaign lifecycle state machine.
type CampaignLogic struct {
	db         *gorm.DB
	dispatcher *event.Dispatcher
	docChecker DocumentChecker // optional, nil skips the gate
}

// NewCampaignLogic creates the campaign lifecycle manager.
func NewCampaignLogic(db *gorm.DB, dispatcher *event.Dispatcher) *CampaignLogic {
	return &CampaignLogic{db: db, dispatcher: dispatcher}
}

// SetDocumentChecker installs the pre-activation document gate.
func (l *CampaignLogic) SetDocumentChecker(checker DocumentChecker) {
	l.docChecker = checker
}

// CampaignInput carries the enterprise-editable fields.
type CampaignInput struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	CampaignType  model.CampaignType `json:"campaign_type"`
	TargetAmount  int64              `json:"target_amount"`
	MinInvestment int64              `json:"min_investment"`
	MaxInvestment int64              `json:"max_investment"`
	StartTime     time.Time          `json:"start_time"`
	EndTime       time.Time          `json:"end_time"`
}

// CampaignUpdate carries a partial edit; nil fields are untouched.
type CampaignUpdate struct {
	Title         *string             `json:"title"`
	Description   *string             `json:"description"`
	CampaignType  *model.CampaignType `json:"campaign_type"`
	TargetAmount  *int64              `json:"target_amount"`
	MinInvestment *int64              `json:"min_investment"`
	MaxInvestment *int64              `json:"max_investment"`
	StartTime     *time.Time          `json:"start_time"`
	EndTime       *time.Time          `json:"end_time"`
}

// CreateCampaign creates a draft campaign owned by the acting enterprise.
func (l *CampaignLogic) CreateCampaign(actor model.Actor, input CampaignInput) (*model.CampaignModel, error) {
	if actor.Role != model.RoleEnterprise {
		return nil, apperr.Forbidden("only an enterprise can create a campaign")
	}
	if err := validateCampaignInput(&input); err != nil {
		return nil, err
	}

	var enterprise model.EnterpriseModel
	if err := l.db.First(&enterprise, actor.Id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("enterprise", actor.Id)
		}
		return nil, apperr.Internal(err, "failed to load enterprise")
	}

	campaign := model.CampaignModel{
		EnterpriseId:  actor.Id,
		Title:         input.Title,
		Description:   input.Description,
		CampaignType:  input.CampaignType,
		TargetAmount:  input.TargetAmount,
		MinInvestment: input.MinInvestment,
		MaxInvestment: input.MaxInvestment,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Status:        model.CampaignStatusDraft,
	}

	if err := l.db.Create(&campaign).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create campaign")
	}
	return &campaign, nil
}

// EditCampaign applies a partial edit of material fields. Editing an
// approved or active campaign sends it back to draft and clears vetting so
// it must be re-approved; draft and revision_required edits change nothing
// about the review state. A campaign under review cannot be edited.
func (l *CampaignLogic) EditCampaign(actor model.Actor, id int64, update CampaignUpdate) (*model.CampaignModel, error) {
	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, campaign); err != nil {
		return nil, err
	}
	if campaign.Status.Terminal() || campaign.Status == model.CampaignStatusSubmitted {
		return nil, apperr.InvalidTransition(string(campaign.Status), "edit")
	}

	updates := map[string]interface{}{}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.CampaignType != nil {
		updates["campaign_type"] = *update.CampaignType
	}
	if update.TargetAmount != nil {
		updates["target_amount"] = *update.TargetAmount
	}
	if update.MinInvestment != nil {
		updates["min_investment"] = *update.MinInvestment
	}
	if update.MaxInvestment != nil {
		updates["max_investment"] = *update.MaxInvestment
	}
	if update.StartTime != nil {
		updates["start_time"] = *update.StartTime
	}
	if update.EndTime != nil {
		updates["end_time"] = *update.EndTime
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	// Validate the merged result before writing anything.
	merged := applyUpdate(campaign, update)
	if err := validateCampaignInput(&merged); err != nil {
		return nil, err
	}

	wasVetted := campaign.Status == model.CampaignStatusApproved || campaign.Status == model.CampaignStatusActive
	if wasVetted {
		updates["status"] = model.CampaignStatusDraft
		updates["is_vetted"] = false
		updates["vetted_by"] = 0
		updates["vetted_at"] = nil
	}

	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	if wasVetted {
		l.dispatcher.Emit(model.EventCampaignReopened, campaign.Id, actor, nil)
		logger.Info("Campaign %d edited after approval, vetting reset", campaign.Id)
	}
	return l.getCampaign(id)
}

// SubmitForReview moves a draft or revised campaign into the review queue
// and snapshots the enterprise readiness score on first submission.
func (l *CampaignLogic) SubmitForReview(actor model.Actor, id int64) (*model.CampaignModel, error) {
	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, campaign); err != nil {
		return nil, err
	}
	if !canTransition(campaign.Status, model.CampaignStatusSubmitted) {
		return nil, apperr.InvalidTransition(string(campaign.Status), string(model.CampaignStatusSubmitted))
	}
	input := CampaignInput{
		Title:         campaign.Title,
		CampaignType:  campaign.CampaignType,
		TargetAmount:  campaign.TargetAmount,
		MinInvestment: campaign.MinInvestment,
		MaxInvestment: campaign.MaxInvestment,
		StartTime:     campaign.StartTime,
		EndTime:       campaign.EndTime,
	}
	if err := validateCampaignInput(&input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status": model.CampaignStatusSubmitted,
	}
	if campaign.ReadinessScore == 0 && campaign.RevisionCount == 0 {
		var enterprise model.EnterpriseModel
		if err := l.db.First(&enterprise, campaign.EnterpriseId).Error; err != nil {
			return nil, apperr.Internal(err, "failed to load enterprise for readiness snapshot")
		}
		updates["readiness_score"] = enterprise.ReadinessScore
	}

	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventCampaignSubmitted, campaign.Id, actor, nil)
	return l.getCampaign(id)
}

// Approve vets a submitted campaign.
func (l *CampaignLogic) Approve(actor model.Actor, id int64, notes string) (*model.CampaignModel, error) {
	campaign, err := l.adminTarget(actor, id, model.CampaignStatusApproved)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        model.CampaignStatusApproved,
		"is_vetted":     true,
		"vetted_by":     actor.Id,
		"vetted_at":     &now,
		"vetting_notes": notes,
	}
	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventCampaignApproved, campaign.Id, actor, nil)
	return l.getCampaign(id)
}

// RequestRevision sends a submitted campaign back to the enterprise with
// notes. Notes are mandatory; the enterprise needs to know what to fix.
func (l *CampaignLogic) RequestRevision(actor model.Actor, id int64, notes string) (*model.CampaignModel, error) {
	if notes == "" {
		return nil, apperr.Validation("revision notes are required")
	}
	campaign, err := l.adminTarget(actor, id, model.CampaignStatusRevisionRequired)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":         model.CampaignStatusRevisionRequired,
		"revision_notes": notes,
		"revision_count": campaign.RevisionCount + 1,
	}
	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventCampaignRevisionRequired, campaign.Id, actor, map[string]string{"notes": notes})
	return l.getCampaign(id)
}

// Reject terminally rejects a submitted campaign. Notes are mandatory.
func (l *CampaignLogic) Reject(actor model.Actor, id int64, notes string) (*model.CampaignModel, error) {
	if notes == "" {
		return nil, apperr.Validation("rejection notes are required")
	}
	campaign, err := l.adminTarget(actor, id, model.CampaignStatusRejected)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":        model.CampaignStatusRejected,
		"vetting_notes": notes,
	}
	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventCampaignRejected, campaign.Id, actor, map[string]string{"notes": notes})
	return l.getCampaign(id)
}

// Activate publishes an approved campaign to investors. The vetting flag is
// re-checked here, not just the status, and the external document gate runs
// when configured.
func (l *CampaignLogic) Activate(actor model.Actor, id int64) (*model.CampaignModel, error) {
	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, campaign); err != nil {
		return nil, err
	}
	if !canTransition(campaign.Status, model.CampaignStatusActive) {
		return nil, apperr.InvalidTransition(string(campaign.Status), string(model.CampaignStatusActive))
	}
	if !campaign.IsVetted {
		return nil, apperr.Validation("campaign is not vetted")
	}
	if l.docChecker != nil {
		missing, err := l.docChecker.MissingDocuments(campaign.Id)
		if err != nil {
			return nil, apperr.Internal(err, "document check failed")
		}
		if len(missing) > 0 {
			return nil, apperr.Validation("missing required documents: %v", missing)
		}
	}

	updates := map[string]interface{}{
		"status": model.CampaignStatusActive,
	}
	if campaign.StartTime.IsZero() {
		updates["start_time"] = time.Now()
	}
	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventCampaignActivated, campaign.Id, actor, nil)
	return l.getCampaign(id)
}

// Close ends an active campaign as completed or cancelled, freezing its
// raised amount. The owning enterprise and the system may close; cancelling
// requires a reason.
func (l *CampaignLogic) Close(actor model.Actor, id int64, outcome model.CampaignStatus, reason string) (*model.CampaignModel, error) {
	if outcome != model.CampaignStatusCompleted && outcome != model.CampaignStatusCancelled {
		return nil, apperr.Validation("close outcome must be completed or cancelled, got %s", outcome)
	}
	if outcome == model.CampaignStatusCancelled && reason == "" {
		return nil, apperr.Validation("a reason is required to cancel a campaign")
	}

	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleSystem {
		if err := requireOwner(actor, campaign); err != nil {
			return nil, err
		}
	}
	if !canTransition(campaign.Status, outcome) {
		return nil, apperr.InvalidTransition(string(campaign.Status), string(outcome))
	}

	updates := map[string]interface{}{
		"status": outcome,
	}
	if outcome == model.CampaignStatusCancelled {
		updates["cancel_reason"] = reason
	}
	if err := l.commit(campaign, updates); err != nil {
		return nil, err
	}
	l.dispatcher.Emit(model.EventCampaignClosed, campaign.Id, actor, map[string]interface{}{
		"outcome":       outcome,
		"amount_raised": campaign.AmountRaised,
	})
	return l.getCampaign(id)
}

// GetCampaign returns a campaign and bumps its view counter. The counter is
// best-effort; it is not a financial field and skips the version check.
func (l *CampaignLogic) GetCampaign(id int64) (*model.CampaignModel, error) {
	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}
	l.db.Model(&model.CampaignModel{}).Where("id = ?", id).
		Update("views_count", gorm.Expr("views_count + 1"))
	campaign.ViewsCount++
	return campaign, nil
}

// ListCampaigns returns campaigns filtered by status and enterprise with
// pagination.
func (l *CampaignLogic) ListCampaigns(status model.CampaignStatus, enterpriseId int64, page, pageSize int) ([]model.CampaignModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := l.db.Model(&model.CampaignModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if enterpriseId > 0 {
		query = query.Where("enterprise_id = ?", enterpriseId)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "failed to count campaigns")
	}

	var campaigns []model.CampaignModel
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, apperr.Internal(err, "failed to list campaigns")
	}
	return campaigns, total, nil
}

// CampaignStats summarizes funding progress. Investor counts come from the
// interest store, not from a campaign snapshot that could race with
// concurrent confirmations.
func (l *CampaignLogic) CampaignStats(id int64) (map[string]interface{}, error) {
	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}

	var interestedCount, committedCount, confirmedCount int64
	base := l.db.Model(&model.InterestRecordModel{}).Where("campaign_id = ?", id)
	if err := base.Session(&gorm.Session{}).Where("status NOT IN ?", []model.InterestStatus{
		model.InterestStatusWithdrawn, model.InterestStatusRejected,
	}).Count(&interestedCount).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count interest records")
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", model.InterestStatusCommitted).
		Count(&committedCount).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count committed records")
	}
	if err := base.Session(&gorm.Session{}).Where("payment_received = ?", true).
		Count(&confirmedCount).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count confirmed records")
	}

	var committedTotal int64
	if err := l.db.Model(&model.InterestRecordModel{}).
		Where("campaign_id = ? AND status IN ?", id, []model.InterestStatus{
			model.InterestStatusCommitted, model.InterestStatusCompleted,
		}).
		Select("COALESCE(SUM(committed_amount), 0)").Scan(&committedTotal).Error; err != nil {
		return nil, apperr.Internal(err, "failed to sum committed amounts")
	}

	remaining := time.Duration(0)
	if campaign.Status == model.CampaignStatusActive && time.Now().Before(campaign.EndTime) {
		remaining = time.Until(campaign.EndTime)
	}

	return map[string]interface{}{
		"campaign_id":         campaign.Id,
		"status":              campaign.Status,
		"target_amount":       campaign.TargetAmount,
		"amount_raised":       campaign.AmountRaised,
		"progress_percentage": campaign.ProgressPercentage(),
		"overfunded":          campaign.AmountRaised > campaign.TargetAmount,
		"committed_total":     committedTotal,
		"interested_count":    interestedCount,
		"committed_count":     committedCount,
		"investor_count":      confirmedCount,
		"views_count":         campaign.ViewsCount,
		"remaining_time":      remaining.String(),
	}, nil
}

// adminTarget loads a campaign for an admin review action and checks the
// transition table.
func (l *CampaignLogic) adminTarget(actor model.Actor, id int64, to model.CampaignStatus) (*model.CampaignModel, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.Forbidden("only an admin can review campaigns")
	}
	campaign, err := l.getCampaign(id)
	if err != nil {
		return nil, err
	}
	if !canTransition(campaign.Status, to) {
		return nil, apperr.InvalidTransition(string(campaign.Status), string(to))
	}
	return campaign, nil
}

func (l *CampaignLogic) getCampaign(id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("campaign", id)
		}
		return nil, apperr.Internal(err, "failed to load campaign")
	}
	return &campaign, nil
}

// commit writes updates through the optimistic version check. A zero row
// count means someone else advanced the campaign first.
func (l *CampaignLogic) commit(campaign *model.CampaignModel, updates map[string]interface{}) error {
	updates["version"] = campaign.Version + 1
	res := l.db.Model(&model.CampaignModel{}).
		Where("id = ? AND version = ?", campaign.Id, campaign.Version).
		Updates(updates)
	if res.Error != nil {
		return apperr.Internal(res.Error, "failed to update campaign")
	}
	if res.RowsAffected == 0 {
		return apperr.ConcurrencyConflict("campaign", campaign.Id)
	}
	return nil
}

func requireOwner(actor model.Actor, campaign *model.CampaignModel) error {
	if actor.Role != model.RoleEnterprise || actor.Id != campaign.EnterpriseId {
		return apperr.Forbidden("campaign %d does not belong to %s %d", campaign.Id, actor.Role, actor.Id)
	}
	return nil
}

func validateCampaignInput(input *CampaignInput) error {
	if input.Title == "" {
		return apperr.Validation("title is required")
	}
	if !model.ValidCampaignType(input.CampaignType) {
		return apperr.Validation("unknown campaign type %q", input.CampaignType)
	}
	if input.TargetAmount <= 0 {
		return apperr.Validation("target amount must be greater than zero")
	}
	if input.MinInvestment < 0 {
		return apperr.Validation("minimum investment cannot be negative")
	}
	if input.MaxInvestment != 0 && input.MaxInvestment < input.MinInvestment {
		return apperr.Validation("maximum investment cannot be below minimum investment")
	}
	if input.EndTime.IsZero() {
		return apperr.Validation("end date is required")
	}
	if !input.StartTime.IsZero() && !input.EndTime.After(input.StartTime) {
		return apperr.Validation("end date must be after start date")
	}
	return nil
}

func applyUpdate(campaign *model.CampaignModel, update CampaignUpdate) CampaignInput {
	merged := CampaignInput{
		Title:         campaign.Title,
		Description:   campaign.Description,
		CampaignType:  campaign.CampaignType,
		TargetAmount:  campaign.TargetAmount,
		MinInvestment: campaign.MinInvestment,
		MaxInvestment: campaign.MaxInvestment,
		StartTime:     campaign.StartTime,
		EndTime:       campaign.EndTime,
	}
	if update.Title != nil {
		merged.Title = *update.Title
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.CampaignType != nil {
		merged.CampaignType = *update.CampaignType
	}
	if update.TargetAmount != nil {
		merged.TargetAmount = *update.TargetAmount
	}
	if update.MinInvestment != nil {
		merged.MinInvestment = *update.MinInvestment
	}
	if update.MaxInvestment != nil {
		merged.MaxInvestment = *update.MaxInvestment
	}
	if update.StartTime != nil {
		merged.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		merged.EndTime = *update.EndTime
	}
	return merged
}
