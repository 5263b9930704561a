package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderline_backend/platform/config"
	"orderline_backend/platform/httpkit"
)

// SignatureHeader carries the vendor's HMAC over the raw request body.
const SignatureHeader = "X-Retell-Signature"

// maxWebhookBody bounds webhook payloads; transcripts are large but bounded.
const maxWebhookBody = 4 << 20

// VerifySignature returns middleware that authenticates webhook deliveries
// by recomputing the HMAC-SHA256 of the raw body. Nothing is processed
// unsigned; the body is restored for downstream binding.
func VerifySignature(cfg config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "unreadable body", nil)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !validSignature(body, c.GetHeader(SignatureHeader), cfg.GetVoiceAPIKey()) {
			httpkit.Error(c, http.StatusUnauthorized, "invalid webhook signature", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func validSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
