package payments

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"denchetravel/internal/bookings"
	"denchetravel/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	err error
}

func (s *stubProcessor) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	return s.err
}

func webhookRequest(t *testing.T, processor Processor, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	controller := NewController(processor, logger.GetDefault())
	SetupPaymentRoutes(engine.Group(""), controller)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleWebhook_StatusMapping(t *testing.T) {
	body := []byte(`{"type": "checkout.session.completed"}`)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"accepted", nil, http.StatusOK},
		{"invalid signature", ErrInvalidSignature, http.StatusBadRequest},
		{"malformed payload", ErrMalformedPayload, http.StatusBadRequest},
		{"state conflict retried by provider", bookings.ErrInvalidTransition, http.StatusConflict},
		{"refund before payment retried by provider", ErrOriginalPaymentNotFound, http.StatusConflict},
		{"internal failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := webhookRequest(t, &stubProcessor{err: tt.err}, body, "t=1,v1=aa")
			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.err == nil {
				assert.JSONEq(t, `{"received": true}`, recorder.Body.String())
			}
		})
	}
}

func TestHandleWebhook_EndToEndAcknowledgement(t *testing.T) {
	ledger := &fakeLedger{}
	settler := new(mockSettler)
	processor := NewProcessor(ledger, settler, testProcessorConfig(), logger.GetDefault())

	payload := []byte(`{"type": "customer.created", "data": {"object": {}}}`)
	header := SignPayload(payload, testSecret, time.Now())

	recorder := webhookRequest(t, processor, payload, header)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"received": true}`, recorder.Body.String())
}
