package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC of a webhook body.
const SignatureHeader = "X-Signature"

const maxWebhookBody = 1 << 20

// BodyVerifier checks a body signature.
type BodyVerifier interface {
	Verify(body []byte, signature string) bool
}

// RequireSignature rejects webhook calls whose body does not match SignatureHeader.
// The body is restored for the next handler.
func RequireSignature(verifier BodyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		_ = c.Request.Body.Close()

		if !verifier.Verify(body, c.GetHeader(SignatureHeader)) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
