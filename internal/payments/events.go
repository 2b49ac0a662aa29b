package payments

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrMalformedPayload = errors.New("webhook payload is malformed")
)

// Event kinds the settlement processor understands
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventChargeRefunded    = "charge.refunded"
)

// Event is the decoded form of a webhook delivery. Exactly one of Checkout
// and Refund is set for recognized types; unrecognized types carry only Type
// and are acknowledged without state change.
type Event struct {
	Type     string
	Checkout *CheckoutCompletedEvent
	Refund   *ChargeRefundedEvent
}

// CheckoutCompletedEvent is the settled-session notification
type CheckoutCompletedEvent struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	Metadata        map[string]string
}

// ChargeRefundedEvent is the refund notification
type ChargeRefundedEvent struct {
	PaymentIntentID string
	AmountRefunded  int64
	Currency        string
}

type eventEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

type chargeObject struct {
	PaymentIntent  string `json:"payment_intent"`
	AmountRefunded int64  `json:"amount_refunded"`
	Currency       string `json:"currency"`
}

// DecodeEvent defensively parses a raw webhook body into the event union
func DecodeEvent(payload []byte) (*Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}

	event := &Event{Type: envelope.Type}

	switch envelope.Type {
	case EventCheckoutCompleted:
		var object checkoutSessionObject
		if err := json.Unmarshal(envelope.Data.Object, &object); err != nil {
			return nil, fmt.Errorf("%w: bad checkout session object: %v", ErrMalformedPayload, err)
		}
		if object.ID == "" || object.PaymentIntent == "" {
			return nil, fmt.Errorf("%w: checkout session missing id or payment_intent", ErrMalformedPayload)
		}
		event.Checkout = &CheckoutCompletedEvent{
			SessionID:       object.ID,
			PaymentIntentID: object.PaymentIntent,
			AmountTotal:     object.AmountTotal,
			Currency:        object.Currency,
			Metadata:        object.Metadata,
		}

	case EventChargeRefunded:
		var object chargeObject
		if err := json.Unmarshal(envelope.Data.Object, &object); err != nil {
			return nil, fmt.Errorf("%w: bad charge object: %v", ErrMalformedPayload, err)
		}
		if object.PaymentIntent == "" {
			return nil, fmt.Errorf("%w: charge missing payment_intent", ErrMalformedPayload)
		}
		event.Refund = &ChargeRefundedEvent{
			PaymentIntentID: object.PaymentIntent,
			AmountRefunded:  object.AmountRefunded,
			Currency:        object.Currency,
		}
	}

	return event, nil
}
