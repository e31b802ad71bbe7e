package logic

import (
	"testing"
	"time"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/apperr"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
)

func TestExpressInterest_RequiresActiveCampaign(t *testing.T) {
	f := newFixture(t)
	campaign := f.draftCampaign(t)

	_, err := f.interests.ExpressInterest(f.investor, campaign.Id)
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error on draft campaign, got %v", err)
	}
}

func TestExpressInterest_Idempotent(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)

	first, err := f.interests.ExpressInterest(f.investor, campaign.Id)
	if err != nil {
		t.Fatalf("express interest failed: %v", err)
	}
	second, err := f.interests.ExpressInterest(f.investor, campaign.Id)
	if err != nil {
		t.Fatalf("repeat express interest failed: %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("expected the existing record back, got %d and %d", first.Id, second.Id)
	}

	var count int64
	f.db.Model(&model.InterestRecordModel{}).Where("campaign_id = ?", campaign.Id).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 record, got %d", count)
	}
}

func TestExpressInterest_AfterWithdrawCreatesNewRecord(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)

	first, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	if _, err := f.interests.Withdraw(f.investor, first.Id); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	second, err := f.interests.ExpressInterest(f.investor, campaign.Id)
	if err != nil {
		t.Fatalf("re-express failed: %v", err)
	}
	if second.Id == first.Id {
		t.Error("expected a fresh record after withdrawal, the old one is audit history")
	}
}

func TestPledge_Bounds(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t) // min 1_000_000, max 5_000_000
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)

	if _, err := f.interests.Pledge(f.investor, record.Id, 500_000); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("expected validation error below minimum, got %v", err)
	}
	if _, err := f.interests.Pledge(f.investor, record.Id, 6_000_000); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("expected validation error above maximum, got %v", err)
	}
	pledged, err := f.interests.Pledge(f.investor, record.Id, 2_000_000)
	if err != nil {
		t.Fatalf("pledge failed: %v", err)
	}
	if pledged.Status != model.InterestStatusCommitted || pledged.CommittedAmount != 2_000_000 {
		t.Errorf("unexpected pledge state: %+v", pledged)
	}
}

func TestPledge_NeverTouchesAmountRaised(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)

	f.interests.Pledge(f.investor, record.Id, 2_000_000)

	if raised := f.reload(t, campaign.Id).AmountRaised; raised != 0 {
		t.Errorf("pledge moved amount_raised to %d", raised)
	}
}

func TestAccept_AdvancesInterested(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)

	accepted, err := f.interests.Accept(f.enterprise, record.Id)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != model.InterestStatusApproved || accepted.ApprovedAt == nil {
		t.Errorf("unexpected accept state: %+v", accepted)
	}
}

func TestAccept_OnCommittedSetsAcceptanceOnly(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Pledge(f.investor, record.Id, 2_000_000)

	accepted, err := f.interests.Accept(f.enterprise, record.Id)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != model.InterestStatusCommitted || accepted.ApprovedAt == nil {
		t.Errorf("unexpected state: %+v", accepted)
	}
}

func TestReject_Terminal(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)

	rejected, err := f.interests.Reject(f.enterprise, record.Id)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != model.InterestStatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if _, err := f.interests.Pledge(f.investor, record.Id, 2_000_000); !apperr.IsCode(err, apperr.CodeInvalidTransition) {
		t.Errorf("expected invalid transition on rejected record, got %v", err)
	}
}

func TestConfirmPayment_CreditsOnce(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Pledge(f.investor, record.Id, 2_000_000)
	f.interests.Accept(f.enterprise, record.Id)

	confirmed, err := f.interests.ConfirmPayment(f.enterprise, record.Id)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != model.InterestStatusCompleted || !confirmed.PaymentReceived {
		t.Errorf("unexpected confirm state: %+v", confirmed)
	}

	// Retry is a no-op, not an error, and must not double-credit.
	again, err := f.interests.ConfirmPayment(f.enterprise, record.Id)
	if err != nil {
		t.Fatalf("retry errored: %v", err)
	}
	if !again.PaymentReceived {
		t.Errorf("retry lost confirmation: %+v", again)
	}

	reloaded := f.reload(t, campaign.Id)
	if reloaded.AmountRaised != 2_000_000 {
		t.Errorf("expected amount_raised 2000000 exactly once, got %d", reloaded.AmountRaised)
	}
	if reloaded.InvestorCount != 1 {
		t.Errorf("expected investor_count 1, got %d", reloaded.InvestorCount)
	}
}

func TestConfirmPayment_BlockedAfterClose(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Pledge(f.investor, record.Id, 2_000_000)
	f.interests.Accept(f.enterprise, record.Id)

	if _, err := f.campaigns.Close(f.enterprise, campaign.Id, model.CampaignStatusCompleted, ""); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// The close froze the totals; a late confirmation must not move them.
	_, err := f.interests.ConfirmPayment(f.enterprise, record.Id)
	if !apperr.IsCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition after close, got %v", err)
	}

	reloaded := f.reload(t, campaign.Id)
	if reloaded.AmountRaised != 0 || reloaded.InvestorCount != 0 {
		t.Errorf("closed campaign totals moved: raised=%d investors=%d",
			reloaded.AmountRaised, reloaded.InvestorCount)
	}
}

func TestInterestRecords_OneLivePerPair(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)

	record := model.InterestRecordModel{
		CampaignId:   campaign.Id,
		InvestorId:   f.investor.Id,
		Status:       model.InterestStatusInterested,
		InterestedAt: time.Now(),
	}
	if err := f.db.Create(&record).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A second live row for the pair must die at the storage layer, not
	// just at the read-then-create check.
	dup := model.InterestRecordModel{
		CampaignId:   campaign.Id,
		InvestorId:   f.investor.Id,
		Status:       model.InterestStatusCommitted,
		InterestedAt: time.Now(),
	}
	if err := f.db.Create(&dup).Error; err == nil {
		t.Fatal("expected the unique index to reject a second live record")
	}

	got, err := f.interests.ExpressInterest(f.investor, campaign.Id)
	if err != nil {
		t.Fatalf("express interest failed: %v", err)
	}
	if got.Id != record.Id {
		t.Errorf("expected the live record %d back, got %d", record.Id, got.Id)
	}
}

func TestConfirmPayment_RequiresAcceptance(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Pledge(f.investor, record.Id, 2_000_000)

	_, err := f.interests.ConfirmPayment(f.enterprise, record.Id)
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error without acceptance, got %v", err)
	}
}

func TestConfirmPayment_RequiresPledge(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Accept(f.enterprise, record.Id)

	_, err := f.interests.ConfirmPayment(f.enterprise, record.Id)
	if !apperr.IsCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition without a pledge, got %v", err)
	}
}

func TestConfirmPayment_TwoInvestorsAccumulate(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	other := model.Actor{Role: model.RoleInvestor, Id: 501}

	for _, investor := range []model.Actor{f.investor, other} {
		record, err := f.interests.ExpressInterest(investor, campaign.Id)
		if err != nil {
			t.Fatalf("express failed: %v", err)
		}
		if _, err := f.interests.Pledge(investor, record.Id, 2_000_000); err != nil {
			t.Fatalf("pledge failed: %v", err)
		}
		if _, err := f.interests.Accept(f.enterprise, record.Id); err != nil {
			t.Fatalf("accept failed: %v", err)
		}
		if _, err := f.interests.ConfirmPayment(f.enterprise, record.Id); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
	}

	reloaded := f.reload(t, campaign.Id)
	if reloaded.AmountRaised != 4_000_000 || reloaded.InvestorCount != 2 {
		t.Errorf("expected 4000000 raised from 2 investors, got %d from %d",
			reloaded.AmountRaised, reloaded.InvestorCount)
	}
}

func TestWithdraw_BlockedAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Pledge(f.investor, record.Id, 2_000_000)
	f.interests.Accept(f.enterprise, record.Id)
	f.interests.ConfirmPayment(f.enterprise, record.Id)

	_, err := f.interests.Withdraw(f.investor, record.Id)
	if !apperr.IsCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition after confirmation, got %v", err)
	}
}

func TestListForCampaign_HidesUnacceptedAmounts(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)
	f.interests.Pledge(f.investor, record.Id, 2_000_000)

	records, err := f.interests.ListForCampaign(f.enterprise, campaign.Id)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || records[0].CommittedAmount != 0 {
		t.Errorf("expected hidden amount before acceptance: %+v", records)
	}

	f.interests.Accept(f.enterprise, record.Id)
	records, _ = f.interests.ListForCampaign(f.enterprise, campaign.Id)
	if records[0].CommittedAmount != 2_000_000 {
		t.Errorf("expected visible amount after acceptance, got %d", records[0].CommittedAmount)
	}
}

func TestEnterpriseActions_RequireOwnership(t *testing.T) {
	f := newFixture(t)
	campaign := f.activeCampaign(t)
	record, _ := f.interests.ExpressInterest(f.investor, campaign.Id)

	other := model.Actor{Role: model.RoleEnterprise, Id: 2}
	if _, err := f.interests.Accept(other, record.Id); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("expected forbidden accept, got %v", err)
	}
	if _, err := f.interests.ConfirmPayment(other, record.Id); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("expected forbidden confirm, got %v", err)
	}
}
