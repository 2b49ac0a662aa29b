package payments

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test_secret"

func TestVerifySignature_ValidRoundTrip(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.NoError(t, err)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"amount_total":15000}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	tampered := []byte(`{"amount_total":1}`)
	err := VerifySignature(tampered, header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignPayload(payload, "whsec_other", now)

	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now.Add(-10*time.Minute))

	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Contains(t, err.Error(), "tolerance")
}

func TestVerifySignature_FutureTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now.Add(10*time.Minute))

	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_ZeroToleranceSkipsAgeCheck(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now.Add(-24*time.Hour))

	err := VerifySignature(payload, header, testSecret, 0, now)
	assert.NoError(t, err)
}

func TestVerifySignature_HeaderShapes(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage", "not-a-signature"},
		{"timestamp only", "t=1700000000"},
		{"signature only", "v1=deadbeef"},
		{"bad timestamp", "t=soon,v1=deadbeef"},
		{"non-hex signature", "t=1700000000,v1=zzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(payload, tt.header, testSecret, 0, now)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestVerifySignature_AcceptsAnyMatchingV1(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	valid := SignPayload(payload, testSecret, now)

	// Providers may send multiple v1 entries during secret rotation
	header := strings.Replace(valid, "v1=", "v1=deadbeef,v1=", 1)
	err := VerifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.NoError(t, err)
}
