package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"denchetravel/internal/departures"
	"denchetravel/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *mockRepository) GetAll(ctx context.Context) ([]Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *mockRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *mockRepository) UpdateStatusConditional(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, from, to, updates)
	return args.Bool(0), args.Error(1)
}

type mockCapacity struct {
	mock.Mock
}

func (m *mockCapacity) GetByID(ctx context.Context, id uuid.UUID) (*departures.Departure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*departures.Departure), args.Error(1)
}

func (m *mockCapacity) Reserve(ctx context.Context, id uuid.UUID, seats int) error {
	args := m.Called(ctx, id, seats)
	return args.Error(0)
}

func (m *mockCapacity) Release(ctx context.Context, id uuid.UUID, seats int) error {
	args := m.Called(ctx, id, seats)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*CheckoutSession, error) {
	args := m.Called(ctx, amountCents, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *mockGateway) CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64) (string, error) {
	args := m.Called(ctx, paymentIntentID, amountCents)
	return args.String(0), args.Error(1)
}

type mockPolicies struct {
	mock.Mock
}

func (m *mockPolicies) RefundPercentage(ctx context.Context, policyID uuid.UUID, departureDate, cancelledAt time.Time) (int, error) {
	args := m.Called(ctx, policyID, departureDate, cancelledAt)
	return args.Int(0), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) CapturedPayments(ctx context.Context, bookingID uuid.UUID) ([]CapturedPayment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CapturedPayment), args.Error(1)
}

// --- fixtures ---

type serviceFixture struct {
	repo     *mockRepository
	capacity *mockCapacity
	gateway  *mockGateway
	policies *mockPolicies
	ledger   *mockLedger
	service  Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:     new(mockRepository),
		capacity: new(mockCapacity),
		gateway:  new(mockGateway),
		policies: new(mockPolicies),
		ledger:   new(mockLedger),
	}
	f.service = NewService(f.repo, f.capacity, f.gateway, f.policies, f.ledger, nil, logger.GetDefault())
	return f
}

func depositDeparture() *departures.Departure {
	return &departures.Departure{
		ID:              uuid.New(),
		TripID:          uuid.New(),
		StartDate:       time.Now().Add(60 * 24 * time.Hour),
		EndDate:         time.Now().Add(63 * 24 * time.Hour),
		Capacity:        16,
		SpotsLeft:       16,
		BasePriceCents:  49900,
		Currency:        "EUR",
		DepositCents:    15000,
		AllowFreeRSVP:   false,
		BookingDeadline: time.Now().Add(55 * 24 * time.Hour),
		RefundPolicyID:  uuid.New(),
	}
}

func freeRSVPDeparture() *departures.Departure {
	d := depositDeparture()
	d.AllowFreeRSVP = true
	return d
}

// --- CreateBooking ---

func TestCreateBooking_DepositPath(t *testing.T) {
	f := newServiceFixture()
	departure := depositDeparture()
	userID := uuid.New()

	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.capacity.On("Reserve", mock.Anything, departure.ID, 2).Return(nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, int64(30000), "EUR", mock.MatchedBy(func(md map[string]string) bool {
		return md["type"] == "deposit" && md["booking_id"] != ""
	})).Return(&CheckoutSession{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil)
	f.repo.On("SetCheckoutSession", mock.Anything, mock.Anything, "cs_test_1").Return(nil)

	result, err := f.service.CreateBooking(context.Background(), userID, CreateBookingRequest{
		DepartureID: departure.ID,
		Seats:       2,
	})
	require.NoError(t, err)

	assert.True(t, result.PaymentRequired)
	assert.Equal(t, "https://pay.example/cs_test_1", result.CheckoutURL)
	assert.Equal(t, StatusPendingDeposit, result.Booking.Status)
	assert.EqualValues(t, 99800, result.Booking.TotalPriceCents)
	assert.EqualValues(t, 0, result.Booking.DepositPaidCents)
	assert.EqualValues(t, 99800-30000, result.Booking.BalanceDueCents)
	assert.Equal(t, "cs_test_1", result.Booking.CheckoutSessionID)

	f.repo.AssertExpectations(t)
	f.capacity.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestCreateBooking_FreeRSVPSkipsPayment(t *testing.T) {
	f := newServiceFixture()
	departure := freeRSVPDeparture()
	userID := uuid.New()

	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.capacity.On("Reserve", mock.Anything, departure.ID, 1).Return(nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)

	result, err := f.service.CreateBooking(context.Background(), userID, CreateBookingRequest{
		DepartureID: departure.ID,
		Seats:       1,
	})
	require.NoError(t, err)

	assert.False(t, result.PaymentRequired)
	assert.Empty(t, result.CheckoutURL)
	assert.Equal(t, StatusReservedUnpaid, result.Booking.Status)
	assert.EqualValues(t, 49900, result.Booking.TotalPriceCents)
	assert.EqualValues(t, 49900, result.Booking.BalanceDueCents)

	f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_SoldOut(t *testing.T) {
	f := newServiceFixture()
	departure := depositDeparture()

	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.capacity.On("Reserve", mock.Anything, departure.ID, 3).Return(departures.ErrInsufficientCapacity)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		DepartureID: departure.ID,
		Seats:       3,
	})
	assert.ErrorIs(t, err, departures.ErrInsufficientCapacity)

	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_DeadlinePassed(t *testing.T) {
	f := newServiceFixture()
	departure := depositDeparture()
	departure.BookingDeadline = time.Now().Add(-time.Hour)

	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		DepartureID: departure.ID,
		Seats:       1,
	})
	assert.ErrorIs(t, err, ErrBookingClosed)

	f.capacity.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_SessionFailureReleasesSeats(t *testing.T) {
	f := newServiceFixture()
	departure := depositDeparture()

	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.capacity.On("Reserve", mock.Anything, departure.ID, 1).Return(nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, int64(15000), "EUR", mock.Anything).
		Return(nil, errors.New("gateway down"))
	f.capacity.On("Release", mock.Anything, departure.ID, 1).Return(nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, mock.Anything, StatusPendingDeposit, StatusCancelled, mock.Anything).
		Return(true, nil)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		DepartureID: departure.ID,
		Seats:       1,
	})
	assert.ErrorIs(t, err, ErrPaymentSessionFailed)

	f.capacity.AssertCalled(t, "Release", mock.Anything, departure.ID, 1)
	f.repo.AssertCalled(t, "UpdateStatusConditional", mock.Anything, mock.Anything, StatusPendingDeposit, StatusCancelled, mock.Anything)
}

// --- PayBalance ---

func TestPayBalance_OpensSessionForOutstandingBalance(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	booking := &Booking{
		ID:               uuid.New(),
		UserID:           userID,
		Status:           StatusReservedDepositPaid,
		TotalPriceCents:  49900,
		DepositPaidCents: 15000,
		BalanceDueCents:  34900,
		Currency:         "EUR",
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, int64(34900), "EUR", mock.MatchedBy(func(md map[string]string) bool {
		return md["type"] == "balance" && md["booking_id"] == booking.ID.String()
	})).Return(&CheckoutSession{ID: "cs_test_2", URL: "https://pay.example/cs_test_2"}, nil)
	f.repo.On("SetCheckoutSession", mock.Anything, booking.ID, "cs_test_2").Return(nil)

	result, err := f.service.PayBalance(context.Background(), booking.ID, userID)
	require.NoError(t, err)
	assert.True(t, result.PaymentRequired)
	assert.Equal(t, "https://pay.example/cs_test_2", result.CheckoutURL)
}

func TestPayBalance_WrongOwner(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{ID: uuid.New(), UserID: uuid.New(), Status: StatusReservedDepositPaid, BalanceDueCents: 100}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := f.service.PayBalance(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestPayBalance_RequiresDepositPaidStatus(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	booking := &Booking{ID: uuid.New(), UserID: userID, Status: StatusPendingDeposit, BalanceDueCents: 34900}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := f.service.PayBalance(context.Background(), booking.ID, userID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// --- CancelBooking ---

func TestCancelBooking_UnpaidReleasesSeatsImmediately(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	booking := &Booking{
		ID:          uuid.New(),
		UserID:      userID,
		DepartureID: uuid.New(),
		Seats:       2,
		Status:      StatusReservedUnpaid,
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, booking.ID, StatusReservedUnpaid, StatusCancelled, mock.Anything).
		Return(true, nil)
	f.capacity.On("Release", mock.Anything, booking.DepartureID, 2).Return(nil)

	result, err := f.service.CancelBooking(context.Background(), booking.ID, userID, false)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, result.Booking.Status)
	assert.False(t, result.RefundInitiated)
	f.capacity.AssertCalled(t, "Release", mock.Anything, booking.DepartureID, 2)
}

func TestCancelBooking_PaidInitiatesRefundWithoutTouchingBooking(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	departure := depositDeparture()
	booking := &Booking{
		ID:               uuid.New(),
		UserID:           userID,
		DepartureID:      departure.ID,
		Seats:            1,
		Status:           StatusReservedDepositPaid,
		TotalPriceCents:  49900,
		DepositPaidCents: 15000,
		BalanceDueCents:  34900,
		PaymentIntentID:  "pi_test_1",
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.policies.On("RefundPercentage", mock.Anything, departure.RefundPolicyID, departure.StartDate, mock.Anything).
		Return(80, nil)
	f.ledger.On("CapturedPayments", mock.Anything, booking.ID).
		Return([]CapturedPayment{{PaymentIntentID: "pi_test_1", AmountCents: 15000}}, nil)
	f.gateway.On("CreateRefund", mock.Anything, "pi_test_1", int64(12000)).Return("re_test_1", nil)

	result, err := f.service.CancelBooking(context.Background(), booking.ID, userID, false)
	require.NoError(t, err)

	assert.True(t, result.RefundInitiated)
	assert.Equal(t, 80, result.RefundPct)
	assert.EqualValues(t, 12000, result.RefundAmountCents)
	// Status only moves when charge.refunded settles
	assert.Equal(t, StatusReservedDepositPaid, result.Booking.Status)
	f.repo.AssertNotCalled(t, "UpdateStatusConditional", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.capacity.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_PaidInFullSplitsRefundAcrossCharges(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	departure := depositDeparture()
	booking := &Booking{
		ID:               uuid.New(),
		UserID:           userID,
		DepartureID:      departure.ID,
		Seats:            1,
		Status:           StatusPaidInFull,
		TotalPriceCents:  49900,
		DepositPaidCents: 15000,
		PaymentIntentID:  "pi_test_2",
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.policies.On("RefundPercentage", mock.Anything, departure.RefundPolicyID, departure.StartDate, mock.Anything).
		Return(80, nil)
	f.ledger.On("CapturedPayments", mock.Anything, booking.ID).Return([]CapturedPayment{
		{PaymentIntentID: "pi_test_1", AmountCents: 15000},
		{PaymentIntentID: "pi_test_2", AmountCents: 34900},
	}, nil)

	// 80% of 49900 is 39920: the balance charge absorbs 34900, the deposit
	// charge covers the remaining 5020. Neither request may exceed its charge.
	f.gateway.On("CreateRefund", mock.Anything, "pi_test_2", int64(34900)).Return("re_test_1", nil)
	f.gateway.On("CreateRefund", mock.Anything, "pi_test_1", int64(5020)).Return("re_test_2", nil)

	result, err := f.service.CancelBooking(context.Background(), booking.ID, userID, false)
	require.NoError(t, err)

	assert.True(t, result.RefundInitiated)
	assert.EqualValues(t, 39920, result.RefundAmountCents)
	f.gateway.AssertExpectations(t)
	f.repo.AssertNotCalled(t, "UpdateStatusConditional", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_ConcurrentCancelReturnsCancelledBooking(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	bookingID := uuid.New()
	departureID := uuid.New()
	stale := &Booking{ID: bookingID, UserID: userID, DepartureID: departureID, Seats: 1, Status: StatusReservedUnpaid}
	cancelled := &Booking{ID: bookingID, UserID: userID, DepartureID: departureID, Seats: 1, Status: StatusCancelled}

	// A concurrent cancel lands between the read and the conditional update;
	// the loser re-reads and reports the cancelled booking as success.
	f.repo.On("GetByID", mock.Anything, bookingID).Return(stale, nil).Once()
	f.repo.On("UpdateStatusConditional", mock.Anything, bookingID, StatusReservedUnpaid, StatusCancelled, mock.Anything).
		Return(false, nil)
	f.repo.On("GetByID", mock.Anything, bookingID).Return(cancelled, nil).Once()

	result, err := f.service.CancelBooking(context.Background(), bookingID, userID, false)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, StatusCancelled, result.Booking.Status)
	assert.False(t, result.RefundInitiated)
	// The winner already released the seats
	f.capacity.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_DepositPaidZeroRefundCancelsDirectly(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	departure := depositDeparture()
	booking := &Booking{
		ID:               uuid.New(),
		UserID:           userID,
		DepartureID:      departure.ID,
		Seats:            1,
		Status:           StatusReservedDepositPaid,
		TotalPriceCents:  49900,
		DepositPaidCents: 15000,
		PaymentIntentID:  "pi_test_1",
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.policies.On("RefundPercentage", mock.Anything, departure.RefundPolicyID, departure.StartDate, mock.Anything).
		Return(0, nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, booking.ID, StatusReservedDepositPaid, StatusCancelled, mock.Anything).
		Return(true, nil)
	f.capacity.On("Release", mock.Anything, departure.ID, 1).Return(nil)

	result, err := f.service.CancelBooking(context.Background(), booking.ID, userID, false)
	require.NoError(t, err)

	assert.False(t, result.RefundInitiated)
	assert.Equal(t, StatusCancelled, result.Booking.Status)
	f.gateway.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_PaidInFullZeroRefundIsRejected(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	departure := depositDeparture()
	booking := &Booking{
		ID:              uuid.New(),
		UserID:          userID,
		DepartureID:     departure.ID,
		Seats:           1,
		Status:          StatusPaidInFull,
		TotalPriceCents: 49900,
		PaymentIntentID: "pi_test_1",
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.capacity.On("GetByID", mock.Anything, departure.ID).Return(departure, nil)
	f.policies.On("RefundPercentage", mock.Anything, departure.RefundPolicyID, departure.StartDate, mock.Anything).
		Return(0, nil)

	_, err := f.service.CancelBooking(context.Background(), booking.ID, userID, false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBooking_TerminalStatusRejected(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New()
	booking := &Booking{ID: uuid.New(), UserID: userID, Status: StatusCancelled}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := f.service.CancelBooking(context.Background(), booking.ID, userID, false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBooking_AdminCanCancelAnyBooking(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DepartureID: uuid.New(),
		Seats:       1,
		Status:      StatusReservedUnpaid,
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, booking.ID, StatusReservedUnpaid, StatusCancelled, mock.Anything).
		Return(true, nil)
	f.capacity.On("Release", mock.Anything, booking.DepartureID, 1).Return(nil)

	_, err := f.service.CancelBooking(context.Background(), booking.ID, uuid.New(), true)
	assert.NoError(t, err)
}

// --- settlement ---

func TestSettleDeposit_AppliesMoneyAndStatus(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Status:          StatusPendingDeposit,
		TotalPriceCents: 49900,
		BalanceDueCents: 34900,
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, booking.ID, StatusPendingDeposit, StatusReservedDepositPaid,
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["deposit_paid_cents"] == int64(15000) &&
				updates["balance_due_cents"] == int64(34900) &&
				updates["payment_intent_id"] == "pi_test_1"
		})).Return(true, nil)

	err := f.service.SettleDeposit(context.Background(), booking.ID, "cs_test_1", "pi_test_1", 15000)
	require.NoError(t, err)

	// deposit_paid + balance_due covers the full price after settlement
	assert.EqualValues(t, booking.TotalPriceCents, booking.DepositPaidCents+booking.BalanceDueCents)
	assert.Equal(t, StatusReservedDepositPaid, booking.Status)
}

func TestSettleDeposit_AlreadySettledIsNoOp(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{
		ID:               uuid.New(),
		Status:           StatusReservedDepositPaid,
		TotalPriceCents:  49900,
		DepositPaidCents: 15000,
		BalanceDueCents:  34900,
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	err := f.service.SettleDeposit(context.Background(), booking.ID, "cs_test_1", "pi_test_1", 15000)
	assert.NoError(t, err)
	f.repo.AssertNotCalled(t, "UpdateStatusConditional", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleDeposit_ConcurrentWinnerMakesLoserNoOp(t *testing.T) {
	f := newServiceFixture()
	bookingID := uuid.New()
	stale := &Booking{ID: bookingID, Status: StatusPendingDeposit, TotalPriceCents: 49900}
	settled := &Booking{ID: bookingID, Status: StatusReservedDepositPaid, TotalPriceCents: 49900, DepositPaidCents: 15000}

	// First read sees the old status, the conditional update misses because a
	// concurrent delivery won, and the re-read finds the target state.
	f.repo.On("GetByID", mock.Anything, bookingID).Return(stale, nil).Once()
	f.repo.On("UpdateStatusConditional", mock.Anything, bookingID, StatusPendingDeposit, StatusReservedDepositPaid, mock.Anything).
		Return(false, nil)
	f.repo.On("GetByID", mock.Anything, bookingID).Return(settled, nil).Once()

	err := f.service.SettleDeposit(context.Background(), bookingID, "cs_test_1", "pi_test_1", 15000)
	assert.NoError(t, err)
}

func TestSettleBalance_OutOfOrderBeforeDeposit(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{ID: uuid.New(), Status: StatusPendingDeposit, TotalPriceCents: 49900}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	err := f.service.SettleBalance(context.Background(), booking.ID, "cs_test_2", "pi_test_2", 34900)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSettleBalance_ClearsBalance(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{
		ID:               uuid.New(),
		Status:           StatusReservedDepositPaid,
		TotalPriceCents:  49900,
		DepositPaidCents: 15000,
		BalanceDueCents:  34900,
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, booking.ID, StatusReservedDepositPaid, StatusPaidInFull,
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["balance_due_cents"] == 0
		})).Return(true, nil)

	err := f.service.SettleBalance(context.Background(), booking.ID, "cs_test_2", "pi_test_2", 34900)
	require.NoError(t, err)

	assert.Equal(t, StatusPaidInFull, booking.Status)
	assert.EqualValues(t, 0, booking.BalanceDueCents)
}

func TestSettleRefund_ReleasesSeats(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{
		ID:          uuid.New(),
		DepartureID: uuid.New(),
		Seats:       2,
		Status:      StatusReservedDepositPaid,
	}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.repo.On("UpdateStatusConditional", mock.Anything, booking.ID, StatusReservedDepositPaid, StatusRefunded, mock.Anything).
		Return(true, nil)
	f.capacity.On("Release", mock.Anything, booking.DepartureID, 2).Return(nil)

	err := f.service.SettleRefund(context.Background(), booking.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusRefunded, booking.Status)
	f.capacity.AssertCalled(t, "Release", mock.Anything, booking.DepartureID, 2)
}

func TestSettleRefund_AlreadyRefundedIsNoOp(t *testing.T) {
	f := newServiceFixture()
	booking := &Booking{ID: uuid.New(), DepartureID: uuid.New(), Seats: 1, Status: StatusRefunded}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	err := f.service.SettleRefund(context.Background(), booking.ID)
	assert.NoError(t, err)
	f.capacity.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

// --- reads ---

func TestGetBooking_OwnerAndAdminAccess(t *testing.T) {
	f := newServiceFixture()
	owner := uuid.New()
	booking := &Booking{ID: uuid.New(), UserID: owner, Status: StatusReservedUnpaid}

	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	got, err := f.service.GetBooking(context.Background(), booking.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = f.service.GetBooking(context.Background(), booking.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	_, err = f.service.GetBooking(context.Background(), booking.ID, uuid.New(), true)
	assert.NoError(t, err)
}
