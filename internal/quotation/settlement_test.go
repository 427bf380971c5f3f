package quotation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"servicehub/internal/apperr"
	"servicehub/internal/booking"
	"servicehub/internal/notify"
	"servicehub/internal/promotion"
	"servicehub/internal/subscription"
	"servicehub/internal/wallet"
)

func fixedPlan(value int64) *subscription.Plan {
	return &subscription.Plan{Name: "basic", DiscountType: subscription.DiscountFixed, DiscountValue: decimal.NewFromInt(value)}
}

func percentageGrant(state promotion.State) *promotion.Grant {
	return &promotion.Grant{
		ID:          testGrantID,
		UserID:      testClientID,
		PromotionID: testPromotionID,
		Discount:    decimal.NewFromInt(20),
		Type:        promotion.TypePercentage,
		State:       state,
	}
}

// expectBooking wires the calls a settlement makes once the money side passes.
func (f *fixture) expectBooking(q *Quotation, plan *subscription.Plan) {
	f.repo.On("GetByID", mock.Anything, q.ID).Return(q, nil)
	f.jobs.On("GetByID", mock.Anything, testJobID).Return(openJob(), nil)
	f.repo.On("MarkAccepted", mock.Anything, q.ID).Return(nil)
	f.jobs.On("MarkBooked", mock.Anything, testJobID).Return(nil)
	f.bookings.On("CreateForQuotation", mock.Anything, mock.MatchedBy(func(in booking.CreateInput) bool {
		return in.QuotationID == q.ID && in.FinalPrice.Equal(q.Budget)
	})).Return(&booking.Booking{ID: testBookingID, QuotationID: q.ID, FinalPrice: q.Budget}, nil)
	f.plans.On("ActivePlan", mock.Anything, testProviderID).Return(plan, nil)
}

func acceptInput() AcceptInput {
	return AcceptInput{JobID: testJobID, QuotationID: testQuotationID, ClientID: testClientID}
}

func TestAccept_ExactBalance(t *testing.T) {
	f := newFixture(clientWallet(500), providerWallet(0))
	f.expectBooking(pendingQuotation(500), fixedPlan(100))
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
		return n.Kind == notify.KindJobAccepted && n.UserID == testProviderID
	})).Return()

	b, err := f.svc.Accept(context.Background(), acceptInput())

	require.NoError(t, err)
	assert.True(t, b.FinalPrice.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.ledger.balance(testClientID).IsZero())

	require.Len(t, f.ledger.entries, 2)
	payment := f.ledger.entries[0]
	assert.Equal(t, wallet.TypeServicePayment, payment.Type)
	assert.Equal(t, wallet.StatusPending, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, payment.PromotionID)

	salary := f.ledger.entries[1]
	assert.Equal(t, wallet.TypeServiceSalary, salary.Type)
	assert.Equal(t, testProviderID, salary.UserID)
	assert.True(t, salary.Amount.Equal(decimal.NewFromInt(100)))

	f.jobs.AssertCalled(t, "MarkBooked", mock.Anything, testJobID)
	f.bookings.AssertNumberOfCalls(t, "CreateForQuotation", 1)
	f.notifier.AssertExpectations(t)
}

func TestAccept_PercentagePromotion(t *testing.T) {
	f := newFixture(clientWallet(10000), providerWallet(0))
	f.expectBooking(pendingQuotation(10000), fixedPlan(100))
	f.promotions.On("Get", mock.Anything, testGrantID).Return(percentageGrant(promotion.StatePending), nil).Once()
	f.promotions.On("Get", mock.Anything, testGrantID).Return(percentageGrant(promotion.StateUsed), nil)
	f.promotions.On("MarkUsed", mock.Anything, testGrantID).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()

	in := acceptInput()
	grantID := testGrantID
	in.PromotionID = &grantID

	_, err := f.svc.Accept(context.Background(), in)
	require.NoError(t, err)

	payment := f.ledger.entries[0]
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(8000)))
	require.NotNil(t, payment.PromotionID)
	assert.Equal(t, testPromotionID, *payment.PromotionID)
	assert.True(t, f.ledger.balance(testClientID).Equal(decimal.NewFromInt(2000)))
	f.promotions.AssertCalled(t, "MarkUsed", mock.Anything, testGrantID)

	_, err = f.svc.Accept(context.Background(), in)
	assert.ErrorIs(t, err, apperr.ErrPromotionNotFound)
	assert.True(t, f.ledger.balance(testClientID).Equal(decimal.NewFromInt(2000)))
	assert.Len(t, f.ledger.entries, 2)
}

func TestAccept_PromotionCoversBudget(t *testing.T) {
	f := newFixture(clientWallet(0), providerWallet(0))
	f.expectBooking(pendingQuotation(500), fixedPlan(100))
	f.promotions.On("Get", mock.Anything, testGrantID).Return(&promotion.Grant{
		ID:          testGrantID,
		UserID:      testClientID,
		PromotionID: testPromotionID,
		Discount:    decimal.NewFromInt(600),
		Type:        promotion.TypeMoney,
		State:       promotion.StatePending,
	}, nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()

	in := acceptInput()
	grantID := testGrantID
	in.PromotionID = &grantID

	_, err := f.svc.Accept(context.Background(), in)

	require.NoError(t, err)
	assert.True(t, f.ledger.entries[0].Amount.IsZero())
	assert.True(t, f.ledger.balance(testClientID).IsZero())
	f.promotions.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything)
}

func TestAccept_PromotionOfAnotherUser(t *testing.T) {
	f := newFixture(clientWallet(10000), providerWallet(0))
	f.repo.On("GetByID", mock.Anything, testQuotationID).Return(pendingQuotation(10000), nil)
	f.jobs.On("GetByID", mock.Anything, testJobID).Return(openJob(), nil)
	grant := percentageGrant(promotion.StatePending)
	grant.UserID = testProviderID
	f.promotions.On("Get", mock.Anything, testGrantID).Return(grant, nil)

	in := acceptInput()
	grantID := testGrantID
	in.PromotionID = &grantID

	_, err := f.svc.Accept(context.Background(), in)

	assert.ErrorIs(t, err, apperr.ErrPromotionNotFound)
	assert.Empty(t, f.ledger.entries)
}

func TestAccept_InsufficientBalance(t *testing.T) {
	for _, balance := range []int64{0, 499} {
		f := newFixture(clientWallet(balance), providerWallet(0))
		f.repo.On("GetByID", mock.Anything, testQuotationID).Return(pendingQuotation(500), nil)
		f.jobs.On("GetByID", mock.Anything, testJobID).Return(openJob(), nil)

		_, err := f.svc.Accept(context.Background(), acceptInput())

		assert.ErrorIs(t, err, apperr.ErrInsufficientBalance)
		assert.True(t, f.ledger.balance(testClientID).Equal(decimal.NewFromInt(balance)))
		assert.Empty(t, f.ledger.entries)
		f.repo.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything)
		f.jobs.AssertNotCalled(t, "MarkBooked", mock.Anything, mock.Anything)
	}
}

func TestAccept_ClientWalletCreatedLazily(t *testing.T) {
	f := newFixture(providerWallet(0))
	f.repo.On("GetByID", mock.Anything, testQuotationID).Return(pendingQuotation(500), nil)
	f.jobs.On("GetByID", mock.Anything, testJobID).Return(openJob(), nil)

	_, err := f.svc.Accept(context.Background(), acceptInput())

	assert.ErrorIs(t, err, apperr.ErrInsufficientBalance)
}

func TestAccept_MissingProviderWalletRollsBack(t *testing.T) {
	f := newFixture(clientWallet(500))
	f.expectBooking(pendingQuotation(500), fixedPlan(100))

	_, err := f.svc.Accept(context.Background(), acceptInput())

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, f.ledger.balance(testClientID).Equal(decimal.NewFromInt(500)))
	assert.Empty(t, f.ledger.entries)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestAccept_TieredPlanWithoutBandRollsBack(t *testing.T) {
	ten := decimal.NewFromInt(10000)
	plan := &subscription.Plan{
		Name:         "pro",
		DiscountType: subscription.DiscountTiered,
		Bands: []subscription.Band{
			{MinValue: decimal.Zero, MaxValue: &ten, Commission: decimal.NewFromInt(15)},
		},
	}
	f := newFixture(clientWallet(20000), providerWallet(0))
	f.expectBooking(pendingQuotation(20000), plan)

	_, err := f.svc.Accept(context.Background(), acceptInput())

	assert.ErrorIs(t, err, subscription.ErrNoCommissionBand)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.True(t, f.ledger.balance(testClientID).Equal(decimal.NewFromInt(20000)))
	assert.Empty(t, f.ledger.entries)
}

func TestAccept_TieredCommission(t *testing.T) {
	f := newFixture(clientWallet(30000), providerWallet(0))
	f.expectBooking(pendingQuotation(30000), tieredPlan())
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()

	_, err := f.svc.Accept(context.Background(), acceptInput())

	require.NoError(t, err)
	assert.True(t, f.ledger.balance(testProviderID).Equal(decimal.NewFromInt(10)))
}

func TestAccept_FractionalBudgetBetweenBands(t *testing.T) {
	budget := decimal.RequireFromString("10000.50")
	q := pendingQuotation(0)
	q.Budget = budget

	client := clientWallet(0)
	client.Balance = budget
	f := newFixture(client, providerWallet(0))
	f.expectBooking(q, tieredPlan())
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()

	_, err := f.svc.Accept(context.Background(), acceptInput())

	require.NoError(t, err)
	assert.True(t, f.ledger.balance(testClientID).IsZero())
	assert.True(t, f.ledger.balance(testProviderID).Equal(decimal.NewFromInt(10)))
}

func TestAccept_QuotationNotPending(t *testing.T) {
	f := newFixture(clientWallet(500), providerWallet(0))
	q := pendingQuotation(500)
	q.State = StateRejected
	f.repo.On("GetByID", mock.Anything, testQuotationID).Return(q, nil)
	f.jobs.On("GetByID", mock.Anything, testJobID).Return(openJob(), nil)

	_, err := f.svc.Accept(context.Background(), acceptInput())

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestAccept_JobAlreadyBooked(t *testing.T) {
	f := newFixture(clientWallet(500), providerWallet(0))
	f.repo.On("GetByID", mock.Anything, testQuotationID).Return(pendingQuotation(500), nil)
	f.repo.On("MarkAccepted", mock.Anything, testQuotationID).Return(nil)
	f.jobs.On("GetByID", mock.Anything, testJobID).Return(openJob(), nil)
	f.jobs.On("MarkBooked", mock.Anything, testJobID).Return(apperr.InvalidState("job is no longer open"))

	_, err := f.svc.Accept(context.Background(), acceptInput())

	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.True(t, f.ledger.balance(testClientID).Equal(decimal.NewFromInt(500)))
	f.bookings.AssertNotCalled(t, "CreateForQuotation", mock.Anything, mock.Anything)
}

func TestAccept_QuotationOfAnotherJob(t *testing.T) {
	f := newFixture(clientWallet(500), providerWallet(0))
	q := pendingQuotation(500)
	q.JobID = testReasonID
	f.repo.On("GetByID", mock.Anything, testQuotationID).Return(q, nil)

	_, err := f.svc.Accept(context.Background(), acceptInput())

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAccept_ThenRejectSecond(t *testing.T) {
	f := newFixture(clientWallet(500), providerWallet(0))
	f.expectBooking(pendingQuotation(500), fixedPlan(100))
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()

	b, err := f.svc.Accept(context.Background(), acceptInput())
	require.NoError(t, err)

	second := pendingQuotation(450)
	second.ID = testGrantID
	f.repo.On("GetByID", mock.Anything, second.ID).Return(second, nil)
	f.repo.On("Reject", mock.Anything, second.ID, testReasonID, "").Return(nil)

	err = f.svc.Reject(context.Background(), RejectInput{
		JobID: testJobID, QuotationID: second.ID, ClientID: testClientID, ReasonID: testReasonID,
	})

	require.NoError(t, err)
	f.repo.AssertCalled(t, "Reject", mock.Anything, second.ID, testReasonID, "")
	f.repo.AssertNotCalled(t, "MarkAccepted", mock.Anything, second.ID)
	assert.Equal(t, testBookingID, b.ID)
	f.bookings.AssertNumberOfCalls(t, "CreateForQuotation", 1)
}

func tieredPlan() *subscription.Plan {
	ten, fifty := decimal.NewFromInt(10000), decimal.NewFromInt(50000)
	return &subscription.Plan{
		Name:         "pro",
		DiscountType: subscription.DiscountTiered,
		Bands: []subscription.Band{
			{MinValue: decimal.Zero, MaxValue: &ten, Commission: decimal.NewFromInt(15)},
			{MinValue: decimal.RequireFromString("10000.01"), MaxValue: &fifty, Commission: decimal.NewFromInt(10)},
			{MinValue: decimal.RequireFromString("50000.01"), Commission: decimal.NewFromInt(5)},
		},
	}
}
