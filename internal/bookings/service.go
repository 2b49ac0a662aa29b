package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"denchetravel/internal/departures"
	"denchetravel/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrBookingClosed        = errors.New("booking deadline for this departure has passed")
	ErrNotBookingOwner      = errors.New("booking belongs to a different user")
	ErrPaymentSessionFailed = errors.New("failed to create payment session")
	ErrNoBalanceDue         = errors.New("booking has no outstanding balance")
)

// CheckoutSession is the slice of a payment session the orchestrator needs
type CheckoutSession struct {
	ID              string
	PaymentIntentID string
	URL             string
}

// PaymentGateway is the payment capability the orchestrator depends on.
// Declared locally so the payments package can depend on this package for
// settlement without a cycle.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*CheckoutSession, error)
	CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64) (string, error)
}

// CapacityService is the slice of the departures service bookings drive
type CapacityService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*departures.Departure, error)
	Reserve(ctx context.Context, id uuid.UUID, seats int) error
	Release(ctx context.Context, id uuid.UUID, seats int) error
}

// RefundPolicyService maps a cancellation moment to a refund percentage
type RefundPolicyService interface {
	RefundPercentage(ctx context.Context, policyID uuid.UUID, departureDate, cancelledAt time.Time) (int, error)
}

// CapturedPayment is one settled charge on a booking. A refund can only be
// issued against the intent that captured it, up to the captured amount.
type CapturedPayment struct {
	PaymentIntentID string
	AmountCents     int64
}

// PaymentLedger exposes a booking's captured charges. Declared locally for
// the same reason as PaymentGateway.
type PaymentLedger interface {
	CapturedPayments(ctx context.Context, bookingID uuid.UUID) ([]CapturedPayment, error)
}

// Notifier publishes booking lifecycle events to the event stream
type Notifier interface {
	BookingCreated(ctx context.Context, booking *Booking)
	BookingCancelled(ctx context.Context, booking *Booking)
	PaymentSettled(ctx context.Context, booking *Booking, kind string, amountCents int64)
	BookingRefunded(ctx context.Context, booking *Booking)
}

// CreateBookingResult is what the storefront needs to continue the flow
type CreateBookingResult struct {
	Booking         *Booking `json:"booking"`
	PaymentRequired bool     `json:"payment_required"`
	CheckoutURL     string   `json:"checkout_url,omitempty"`
}

// CancelBookingResult reports what cancellation did or initiated
type CancelBookingResult struct {
	Booking           *Booking `json:"booking"`
	RefundInitiated   bool     `json:"refund_initiated"`
	RefundPct         int      `json:"refund_pct,omitempty"`
	RefundAmountCents int64    `json:"refund_amount_cents,omitempty"`
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CreateBookingResult, error)
	PayBalance(ctx context.Context, bookingID, userID uuid.UUID) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*CancelBookingResult, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	GetAllBookings(ctx context.Context) ([]Booking, error)

	// Settlement entry points, driven by the webhook processor
	SettleDeposit(ctx context.Context, bookingID uuid.UUID, sessionID, paymentIntentID string, amountCents int64) error
	SettleBalance(ctx context.Context, bookingID uuid.UUID, sessionID, paymentIntentID string, amountCents int64) error
	SettleRefund(ctx context.Context, bookingID uuid.UUID) error
}

type service struct {
	repo     Repository
	capacity CapacityService
	gateway  PaymentGateway
	policies RefundPolicyService
	ledger   PaymentLedger
	notifier Notifier
	logger   *logger.Logger
}

// NewService creates the booking orchestrator. notifier may be nil when the
// event stream is disabled.
func NewService(repo Repository, capacity CapacityService, gateway PaymentGateway, policies RefundPolicyService, ledger PaymentLedger, notifier Notifier, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		capacity: capacity,
		gateway:  gateway,
		policies: policies,
		ledger:   ledger,
		notifier: notifier,
		logger:   log,
	}
}

// CreateBooking reserves capacity, records the booking and, unless the
// departure allows free RSVP, opens a deposit checkout session. Capacity is
// the only step that may lose a race; everything after it must either finish
// or compensate by releasing the seats again.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CreateBookingResult, error) {
	// Step 1: Resolve the departure
	departure, err := s.capacity.GetByID(ctx, req.DepartureID)
	if err != nil {
		return nil, err
	}

	if !departure.BookingDeadline.IsZero() && time.Now().After(departure.BookingDeadline) {
		return nil, ErrBookingClosed
	}

	// Step 2: Atomically hold the seats
	if err := s.capacity.Reserve(ctx, departure.ID, req.Seats); err != nil {
		return nil, err
	}

	// Step 3: Record the booking in its initial state
	totalPrice := departure.BasePriceCents * int64(req.Seats)
	depositAmount := int64(0)
	initialStatus := StatusReservedUnpaid
	if !departure.AllowFreeRSVP {
		depositAmount = departure.DepositCents * int64(req.Seats)
		initialStatus = StatusPendingDeposit
	}

	booking := &Booking{
		UserID:           userID,
		TripID:           departure.TripID,
		DepartureID:      departure.ID,
		Seats:            req.Seats,
		Status:           initialStatus,
		TotalPriceCents:  totalPrice,
		DepositPaidCents: 0,
		BalanceDueCents:  totalPrice - depositAmount,
		Currency:         departure.Currency,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		s.releaseSeats(ctx, departure.ID, req.Seats)
		return nil, err
	}

	s.logger.LogBookingCreated(ctx, booking.ID.String(), departure.ID.String(), userID.String())

	// Step 4: Free RSVP needs no payment
	if departure.AllowFreeRSVP {
		s.notifyBookingCreated(ctx, booking)
		return &CreateBookingResult{Booking: booking, PaymentRequired: false}, nil
	}

	// Step 5: Open the deposit checkout session. On failure the held seats
	// must be given back and the booking closed out, since the store offers
	// no cross-table transaction to undo both writes at once.
	session, err := s.gateway.CreateCheckoutSession(ctx, depositAmount, departure.Currency, map[string]string{
		"booking_id": booking.ID.String(),
		"type":       "deposit",
	})
	if err != nil {
		s.releaseSeats(ctx, departure.ID, req.Seats)
		if _, cErr := s.repo.UpdateStatusConditional(ctx, booking.ID, StatusPendingDeposit, StatusCancelled, nil); cErr != nil {
			s.logger.WithError(cErr).Error("failed to close booking after session failure", "booking_id", booking.ID.String())
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentSessionFailed, err)
	}

	// Step 6: Store the session reference for settlement correlation
	if err := s.repo.SetCheckoutSession(ctx, booking.ID, session.ID); err != nil {
		return nil, err
	}
	booking.CheckoutSessionID = session.ID

	s.notifyBookingCreated(ctx, booking)
	return &CreateBookingResult{
		Booking:         booking,
		PaymentRequired: true,
		CheckoutURL:     session.URL,
	}, nil
}

// PayBalance opens a checkout session for the outstanding balance of a
// deposit-paid booking
func (s *service) PayBalance(ctx context.Context, bookingID, userID uuid.UUID) (*CreateBookingResult, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != StatusReservedDepositPaid {
		return nil, fmt.Errorf("%w: %s cannot accept %s", ErrInvalidTransition, booking.Status, EventBalanceSettled)
	}
	if booking.BalanceDueCents <= 0 {
		return nil, ErrNoBalanceDue
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, booking.BalanceDueCents, booking.Currency, map[string]string{
		"booking_id": booking.ID.String(),
		"type":       "balance",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentSessionFailed, err)
	}

	if err := s.repo.SetCheckoutSession(ctx, booking.ID, session.ID); err != nil {
		return nil, err
	}
	booking.CheckoutSessionID = session.ID

	return &CreateBookingResult{
		Booking:         booking,
		PaymentRequired: true,
		CheckoutURL:     session.URL,
	}, nil
}

// CancelBooking resolves a cancellation request. Unpaid bookings are closed
// and their seats released immediately. Paid bookings with a refund due get a
// refund issued at the gateway; the booking then stays in its current state
// until the provider's charge.refunded event settles it to refunded.
func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*CancelBookingResult, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s cannot accept %s", ErrInvalidTransition, booking.Status, EventCancelRequested)
	}

	// No money captured: cancel outright
	if !booking.Status.HasSettledPayment() {
		return s.cancelUnpaid(ctx, booking)
	}

	// Money captured: evaluate the refund policy
	departure, err := s.capacity.GetByID(ctx, booking.DepartureID)
	if err != nil {
		return nil, err
	}

	refundPct := 0
	if departure.RefundPolicyID != uuid.Nil {
		refundPct, err = s.policies.RefundPercentage(ctx, departure.RefundPolicyID, departure.StartDate, time.Now())
		if err != nil {
			return nil, err
		}
	}

	settled := booking.SettledCents()
	refundAmount := settled * int64(refundPct) / 100

	if refundAmount > 0 {
		issued, err := s.issueRefunds(ctx, booking, refundAmount)
		if err != nil {
			return nil, err
		}
		if issued > 0 {
			s.logger.LogBookingCancelled(ctx, booking.ID.String(), userID.String())
			return &CancelBookingResult{
				Booking:           booking,
				RefundInitiated:   true,
				RefundPct:         refundPct,
				RefundAmountCents: issued,
			}, nil
		}
	}

	// Nothing to refund: cancel directly if the state machine allows it
	// (paid_in_full only ever leaves via refund)
	if _, err := Transition(booking.Status, EventCancelRequested); err != nil {
		return nil, err
	}
	return s.cancelUnpaid(ctx, booking)
}

// issueRefunds spreads a refund across the booking's captured charges,
// newest first. The provider rejects a refund larger than the charge it is
// issued against, so each request is capped at that charge's amount.
func (s *service) issueRefunds(ctx context.Context, booking *Booking, amountCents int64) (int64, error) {
	var captured []CapturedPayment
	if s.ledger != nil {
		var err error
		captured, err = s.ledger.CapturedPayments(ctx, booking.ID)
		if err != nil {
			return 0, err
		}
	}
	if len(captured) == 0 && booking.PaymentIntentID != "" {
		captured = []CapturedPayment{{PaymentIntentID: booking.PaymentIntentID, AmountCents: amountCents}}
	}

	issued := int64(0)
	remaining := amountCents
	for i := len(captured) - 1; i >= 0 && remaining > 0; i-- {
		part := captured[i].AmountCents
		if part <= 0 {
			continue
		}
		if part > remaining {
			part = remaining
		}
		if _, err := s.gateway.CreateRefund(ctx, captured[i].PaymentIntentID, part); err != nil {
			return issued, err
		}
		issued += part
		remaining -= part
	}
	return issued, nil
}

func (s *service) cancelUnpaid(ctx context.Context, booking *Booking) (*CancelBookingResult, error) {
	moved, err := s.repo.UpdateStatusConditional(ctx, booking.ID, booking.Status, StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		// A concurrent cancel may have won the conditional update; that
		// winner released the seats, so this request just reports success.
		current, rErr := s.repo.GetByID(ctx, booking.ID)
		if rErr != nil {
			return nil, rErr
		}
		if current.Status == StatusCancelled {
			return &CancelBookingResult{Booking: current}, nil
		}
		return nil, fmt.Errorf("%w: %s cannot accept %s", ErrInvalidTransition, current.Status, EventCancelRequested)
	}

	s.releaseSeats(ctx, booking.DepartureID, booking.Seats)
	booking.Status = StatusCancelled

	s.logger.LogBookingCancelled(ctx, booking.ID.String(), booking.UserID.String())
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking)
	}
	return &CancelBookingResult{Booking: booking}, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) GetAllBookings(ctx context.Context) ([]Booking, error) {
	return s.repo.GetAll(ctx)
}

// SettleDeposit applies a settled deposit payment. Safe under replay and
// concurrent delivery: the status-conditional update admits exactly one
// writer, and a booking already in the target state is a no-op.
func (s *service) SettleDeposit(ctx context.Context, bookingID uuid.UUID, sessionID, paymentIntentID string, amountCents int64) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	next, err := Transition(booking.Status, EventDepositSettled)
	if err != nil {
		if booking.Status == StatusReservedDepositPaid {
			return nil
		}
		return err
	}

	updates := map[string]interface{}{
		"deposit_paid_cents":  amountCents,
		"balance_due_cents":   booking.TotalPriceCents - amountCents,
		"payment_intent_id":   paymentIntentID,
		"checkout_session_id": sessionID,
	}
	moved, err := s.repo.UpdateStatusConditional(ctx, bookingID, booking.Status, next, updates)
	if err != nil {
		return err
	}
	if !moved {
		return s.staleStatusError(ctx, bookingID, next, EventDepositSettled)
	}

	booking.Status = next
	booking.DepositPaidCents = amountCents
	booking.BalanceDueCents = booking.TotalPriceCents - amountCents
	if s.notifier != nil {
		s.notifier.PaymentSettled(ctx, booking, "deposit", amountCents)
	}
	return nil
}

// SettleBalance applies a settled balance payment
func (s *service) SettleBalance(ctx context.Context, bookingID uuid.UUID, sessionID, paymentIntentID string, amountCents int64) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	next, err := Transition(booking.Status, EventBalanceSettled)
	if err != nil {
		if booking.Status == StatusPaidInFull {
			return nil
		}
		return err
	}

	updates := map[string]interface{}{
		"balance_due_cents":   0,
		"payment_intent_id":   paymentIntentID,
		"checkout_session_id": sessionID,
	}
	moved, err := s.repo.UpdateStatusConditional(ctx, bookingID, booking.Status, next, updates)
	if err != nil {
		return err
	}
	if !moved {
		return s.staleStatusError(ctx, bookingID, next, EventBalanceSettled)
	}

	booking.Status = next
	booking.BalanceDueCents = 0
	if s.notifier != nil {
		s.notifier.PaymentSettled(ctx, booking, "balance", amountCents)
	}
	return nil
}

// SettleRefund moves a paid booking to refunded and gives its seats back
func (s *service) SettleRefund(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	next, err := Transition(booking.Status, EventRefundSettled)
	if err != nil {
		if booking.Status == StatusRefunded {
			return nil
		}
		return err
	}

	moved, err := s.repo.UpdateStatusConditional(ctx, bookingID, booking.Status, next, nil)
	if err != nil {
		return err
	}
	if !moved {
		return s.staleStatusError(ctx, bookingID, next, EventRefundSettled)
	}

	s.releaseSeats(ctx, booking.DepartureID, booking.Seats)
	booking.Status = next
	if s.notifier != nil {
		s.notifier.BookingRefunded(ctx, booking)
	}
	return nil
}

// staleStatusError re-reads a booking after a conditional update matched no
// row, distinguishing a concurrent writer that already reached the target
// state (no-op) from a genuinely illegal transition.
func (s *service) staleStatusError(ctx context.Context, bookingID uuid.UUID, target Status, event Event) error {
	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status == target {
		return nil
	}
	return fmt.Errorf("%w: %s cannot accept %s", ErrInvalidTransition, current.Status, event)
}

func (s *service) releaseSeats(ctx context.Context, departureID uuid.UUID, seats int) {
	if err := s.capacity.Release(ctx, departureID, seats); err != nil {
		s.logger.WithError(err).Error("failed to release departure seats", "departure_id", departureID.String(), "seats", seats)
	}
}

func (s *service) notifyBookingCreated(ctx context.Context, booking *Booking) {
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, booking)
	}
}
