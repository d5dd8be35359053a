package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookRouter(secret, mode string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", WebhookAuth(secret, mode), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestWebhookAuthAcceptsValidSignature(t *testing.T) {
	r := webhookRouter("s3cret", "prod")
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(body, "s3cret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookAuthRejectsBadSignature(t *testing.T) {
	r := webhookRouter("s3cret", "prod")
	body := []byte(`{"id":"evt_1"}`)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(body, "wrong-secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAuthRejectsMissingSignature(t *testing.T) {
	r := webhookRouter("s3cret", "prod")

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAuthRejectsTamperedBody(t *testing.T) {
	r := webhookRouter("s3cret", "prod")
	signed := []byte(`{"amount":10}`)
	tampered := []byte(`{"amount":99}`)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(tampered))
	req.Header.Set(SignatureHeader, sign(signed, "s3cret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAuthSandboxSkipsVerification(t *testing.T) {
	r := webhookRouter("s3cret", "sandbox")

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookAuthVerifiesByDefault(t *testing.T) {
	// Empty mode, the unconfigured default, must still verify.
	r := webhookRouter("s3cret", "")

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := []byte(`{"id":"evt_2"}`)
	req = httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(body, "s3cret"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifySignatureConstantShapes(t *testing.T) {
	body := []byte("payload")

	assert.True(t, VerifySignature(body, sign(body, "k"), "k"))
	// Case-insensitive hex and surrounding whitespace are tolerated.
	assert.True(t, VerifySignature(body, " "+sign(body, "k")+" ", "k"))
	assert.False(t, VerifySignature(body, "deadbeef", "k"))
}
