package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePayload_UnknownKind(t *testing.T) {
	errs := ValidatePayload(EventKind("bogus.kind"), map[string]interface{}{})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown event kind")
}

func TestValidatePayload_AppCreated(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		errs := ValidatePayload(EventAppCreated, map[string]interface{}{
			"appId": "app_1", "appName": "demo", "userId": "u_1",
		})
		assert.Empty(t, errs)
	})

	t.Run("missing required fields", func(t *testing.T) {
		errs := ValidatePayload(EventAppCreated, map[string]interface{}{})
		assert.Len(t, errs, 3)
	})
}

func TestValidatePayload_AppDeployed_Environment(t *testing.T) {
	base := map[string]interface{}{
		"appId": "app_1", "appName": "demo", "userId": "u_1",
		"deploymentUrl": "https://demo.example.test",
	}

	t.Run("valid environment", func(t *testing.T) {
		payload := cloneWith(base, "environment", "production")
		assert.Empty(t, ValidatePayload(EventAppDeployed, payload))
	})

	t.Run("invalid environment", func(t *testing.T) {
		payload := cloneWith(base, "environment", "staging")
		errs := ValidatePayload(EventAppDeployed, payload)
		assert.Len(t, errs, 1)
		assert.Contains(t, errs[0], "environment")
	})
}

func TestValidatePayload_PaymentSuccess(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := ValidatePayload(EventPaymentSuccess, map[string]interface{}{
			"userId": "U", "amount": 29.0, "currency": "USD",
		})
		assert.Empty(t, errs)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		errs := ValidatePayload(EventPaymentSuccess, map[string]interface{}{
			"userId": "U", "amount": 0.0, "currency": "USD",
		})
		assert.NotEmpty(t, errs)
	})

	t.Run("currency not 3 letters", func(t *testing.T) {
		errs := ValidatePayload(EventPaymentSuccess, map[string]interface{}{
			"userId": "U", "amount": 10.0, "currency": "US",
		})
		assert.NotEmpty(t, errs)
	})
}

func TestValidatePayload_EmailShape(t *testing.T) {
	t.Run("valid email accepted", func(t *testing.T) {
		errs := ValidatePayload(EventUserRegistered, map[string]interface{}{
			"userId": "U", "email": "a@b.com",
		})
		assert.Empty(t, errs)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		errs := ValidatePayload(EventUserRegistered, map[string]interface{}{
			"userId": "U", "email": "not-an-email",
		})
		assert.NotEmpty(t, errs)
	})
}

func cloneWith(m map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
