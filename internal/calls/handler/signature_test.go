package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeWebhookConfig struct{ key string }

func (f fakeWebhookConfig) GetVoiceAPIKey() string { return f.key }

func signedRouter(t *testing.T, secret string) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	processed := 0
	r := gin.New()
	r.POST("/webhook", VerifySignature(fakeWebhookConfig{key: secret}), func(c *gin.Context) {
		processed++
		c.JSON(http.StatusOK, gin.H{"received": true})
	})
	return r, &processed
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAcceptsValidSignature(t *testing.T) {
	r, processed := signedRouter(t, "secret-key")
	body := []byte(`{"event":"call_started","data":{"call_id":"c1"}}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(body, "secret-key"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if *processed != 1 {
		t.Errorf("handler should have run once, ran %d times", *processed)
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	r, processed := signedRouter(t, "secret-key")
	body := []byte(`{"event":"call_started","data":{"call_id":"c1"}}`)
	signature := sign(body, "secret-key")
	tampered := []byte(`{"event":"call_started","data":{"call_id":"c2"}}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(tampered))
	req.Header.Set(SignatureHeader, signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if *processed != 0 {
		t.Errorf("handler must not run on tampered delivery")
	}
}

func TestVerifySignatureRejectsMissingSignature(t *testing.T) {
	r, processed := signedRouter(t, "secret-key")

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if *processed != 0 {
		t.Errorf("handler must not run without a signature")
	}
}
