package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"denchetravel/internal/bookings"
	"denchetravel/internal/shared/config"
	"denchetravel/pkg/logger"

	"github.com/google/uuid"
)

var ErrOriginalPaymentNotFound = errors.New("refund received before its original payment")

// BookingSettler is the slice of the bookings service the settlement
// processor drives. Declared locally to keep the dependency one-way.
type BookingSettler interface {
	SettleDeposit(ctx context.Context, bookingID uuid.UUID, sessionID, paymentIntentID string, amountCents int64) error
	SettleBalance(ctx context.Context, bookingID uuid.UUID, sessionID, paymentIntentID string, amountCents int64) error
	SettleRefund(ctx context.Context, bookingID uuid.UUID) error
}

// Processor reconciles asynchronous provider events into booking state and
// ledger entries. Deliveries may arrive concurrently, repeated, or out of
// order; ordering is reconstructed from the booking's current status and the
// ledger's (payment_intent_id, kind) natural key, never from delivery order.
type Processor interface {
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}

type processor struct {
	repo      Repository
	settler   BookingSettler
	secret    string
	tolerance time.Duration
	logger    *logger.Logger
}

func NewProcessor(repo Repository, settler BookingSettler, cfg *config.Config, log *logger.Logger) Processor {
	return &processor{
		repo:      repo,
		settler:   settler,
		secret:    cfg.Payment.WebhookSecret,
		tolerance: cfg.Payment.WebhookTolerance,
		logger:    log,
	}
}

func (p *processor) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	// Step 1: Authenticate before interpreting anything
	if err := VerifySignature(payload, signatureHeader, p.secret, p.tolerance, time.Now()); err != nil {
		return err
	}

	// Step 2: Defensive decode into the known event union
	event, err := DecodeEvent(payload)
	if err != nil {
		return err
	}

	// Step 3: Dispatch; unrecognized kinds are acknowledged with no state change
	switch event.Type {
	case EventCheckoutCompleted:
		return p.handleCheckoutCompleted(ctx, event.Checkout)
	case EventChargeRefunded:
		return p.handleChargeRefunded(ctx, event.Refund)
	default:
		p.logger.WithFields(map[string]interface{}{"event_type": event.Type}).Debug("ignoring unrecognized webhook event kind")
		return nil
	}
}

func (p *processor) handleCheckoutCompleted(ctx context.Context, event *CheckoutCompletedEvent) error {
	bookingIDRaw, ok := event.Metadata["booking_id"]
	if !ok || bookingIDRaw == "" {
		// Session was not created by this system; nothing to settle
		p.logger.LogSettlementAnomaly(ctx, EventCheckoutCompleted, event.SessionID, "session has no booking_id metadata")
		return nil
	}

	bookingID, err := uuid.Parse(bookingIDRaw)
	if err != nil {
		return fmt.Errorf("%w: booking_id metadata is not a UUID", ErrMalformedPayload)
	}

	kind := Kind(event.Metadata["type"])
	if kind == "" {
		kind = KindDeposit
	}
	if kind != KindDeposit && kind != KindBalance {
		return fmt.Errorf("%w: unexpected payment type %q in metadata", ErrMalformedPayload, kind)
	}

	// Idempotency: a ledger entry for this (intent, kind) means the event was
	// already applied; replay is a successful no-op.
	exists, err := p.repo.ExistsByIntentAndKind(ctx, event.PaymentIntentID, kind)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Drive the state machine first so a failed transition never leaves an
	// orphaned ledger entry blocking the retry.
	if kind == KindDeposit {
		err = p.settler.SettleDeposit(ctx, bookingID, event.SessionID, event.PaymentIntentID, event.AmountTotal)
	} else {
		err = p.settler.SettleBalance(ctx, bookingID, event.SessionID, event.PaymentIntentID, event.AmountTotal)
	}
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			// The referenced booking was never recorded here; retrying the
			// delivery cannot make it exist, so acknowledge it.
			p.logger.LogSettlementAnomaly(ctx, EventCheckoutCompleted, event.SessionID, "booking_id matches no booking")
			return nil
		}
		return err
	}

	entry := &LedgerEntry{
		BookingID:       bookingID,
		Kind:            kind,
		AmountCents:     event.AmountTotal,
		Currency:        strings.ToUpper(event.Currency),
		PaymentIntentID: event.PaymentIntentID,
		Status:          "succeeded",
	}
	if _, err := p.repo.AppendIfAbsent(ctx, entry); err != nil {
		return err
	}

	p.logger.LogPaymentSettled(ctx, bookingID.String(), string(kind), event.PaymentIntentID, event.AmountTotal)
	return nil
}

func (p *processor) handleChargeRefunded(ctx context.Context, event *ChargeRefundedEvent) error {
	exists, err := p.repo.ExistsByIntentAndKind(ctx, event.PaymentIntentID, KindRefund)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	original, err := p.repo.GetOriginalByIntent(ctx, event.PaymentIntentID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			// Refund delivered before the payment it reverses. Reject so the
			// provider retries once the completion event has landed.
			p.logger.LogSettlementAnomaly(ctx, EventChargeRefunded, event.PaymentIntentID, "no original payment on ledger")
			return ErrOriginalPaymentNotFound
		}
		return err
	}

	if err := p.settler.SettleRefund(ctx, original.BookingID); err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			p.logger.LogSettlementAnomaly(ctx, EventChargeRefunded, event.PaymentIntentID, "ledger entry references a missing booking")
			return nil
		}
		return err
	}

	entry := &LedgerEntry{
		BookingID:       original.BookingID,
		Kind:            KindRefund,
		AmountCents:     -event.AmountRefunded,
		Currency:        strings.ToUpper(event.Currency),
		PaymentIntentID: event.PaymentIntentID,
		Status:          "succeeded",
	}
	if _, err := p.repo.AppendIfAbsent(ctx, entry); err != nil {
		return err
	}

	p.logger.LogPaymentSettled(ctx, original.BookingID.String(), string(KindRefund), event.PaymentIntentID, -event.AmountRefunded)
	return nil
}
