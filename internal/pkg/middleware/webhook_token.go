package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/notion"
)

// WebhookTokenMiddleware checks a shared secret on inbound record webhooks.
// An empty token disables the check.
func WebhookTokenMiddleware(token string) fiber.Handler {
	expected := strings.TrimSpace(token)
	return func(c *fiber.Ctx) error {
		if expected == "" {
			return c.Next()
		}

		got := extractWebhookTokenFromHeader(c)
		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing webhook token"})
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			log.Warn().Str("path", c.Path()).Str("ip", c.IP()).Msg("webhook token mismatch")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid webhook token"})
		}
		return c.Next()
	}
}

func extractWebhookTokenFromHeader(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get("X-Webhook-Token"))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// RecordSignatureMiddleware verifies X-Notion-Signature when a secret is
// configured. An empty secret disables the check.
func RecordSignatureMiddleware(secret string) fiber.Handler {
	key := strings.TrimSpace(secret)
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}
		if !notion.VerifySignature(c.Body(), c.Get(notion.SignatureHeader), key) {
			log.Warn().Str("path", c.Path()).Str("ip", c.IP()).Msg("record webhook signature mismatch")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid webhook signature"})
		}
		return c.Next()
	}
}
