package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent_CheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"payment_intent": "pi_test_1",
				"amount_total": 15000,
				"currency": "eur",
				"metadata": {"booking_id": "b-1", "type": "deposit"}
			}
		}
	}`)

	event, err := DecodeEvent(payload)
	require.NoError(t, err)

	require.NotNil(t, event.Checkout)
	assert.Nil(t, event.Refund)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_test_1", event.Checkout.SessionID)
	assert.Equal(t, "pi_test_1", event.Checkout.PaymentIntentID)
	assert.EqualValues(t, 15000, event.Checkout.AmountTotal)
	assert.Equal(t, "deposit", event.Checkout.Metadata["type"])
}

func TestDecodeEvent_ChargeRefunded(t *testing.T) {
	payload := []byte(`{
		"type": "charge.refunded",
		"data": {
			"object": {
				"payment_intent": "pi_test_1",
				"amount_refunded": 12000,
				"currency": "eur"
			}
		}
	}`)

	event, err := DecodeEvent(payload)
	require.NoError(t, err)

	require.NotNil(t, event.Refund)
	assert.Nil(t, event.Checkout)
	assert.Equal(t, "pi_test_1", event.Refund.PaymentIntentID)
	assert.EqualValues(t, 12000, event.Refund.AmountRefunded)
}

func TestDecodeEvent_UnknownKindCarriesTypeOnly(t *testing.T) {
	payload := []byte(`{"type": "invoice.paid", "data": {"object": {}}}`)

	event, err := DecodeEvent(payload)
	require.NoError(t, err)

	assert.Equal(t, "invoice.paid", event.Type)
	assert.Nil(t, event.Checkout)
	assert.Nil(t, event.Refund)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"missing type", `{"data": {"object": {}}}`},
		{"checkout missing session id", `{"type": "checkout.session.completed", "data": {"object": {"payment_intent": "pi_1"}}}`},
		{"checkout missing intent", `{"type": "checkout.session.completed", "data": {"object": {"id": "cs_1"}}}`},
		{"checkout object wrong shape", `{"type": "checkout.session.completed", "data": {"object": []}}`},
		{"charge missing intent", `{"type": "charge.refunded", "data": {"object": {"amount_refunded": 1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
