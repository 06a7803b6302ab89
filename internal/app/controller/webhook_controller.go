package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/sellora/sellora-backend/internal/errors"
	"github.com/sellora/sellora-backend/internal/middleware"
	"github.com/sellora/sellora-backend/pkg/queue"
	svix "github.com/svix/svix-webhooks/go"
)

// identityEvent is the provider's webhook envelope.
type identityEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// relayedEvents are the lifecycle events forwarded to the job queue, keyed
// by provider event type.
var relayedEvents = map[string]string{
	"user.created": "clerk/user.created",
	"user.updated": "clerk/user.updated",
	"user.deleted": "clerk/user.deleted",
}

// WebhookController is the verify-and-forward boundary for identity-provider
// events. It performs no business logic of its own.
type WebhookController struct {
	verifier  *svix.Webhook
	publisher queue.Publisher
}

func NewWebhookController(signingSecret string, publisher queue.Publisher) (*WebhookController, error) {
	verifier, err := svix.NewWebhook(signingSecret)
	if err != nil {
		return nil, err
	}
	return &WebhookController{
		verifier:  verifier,
		publisher: publisher,
	}, nil
}

// HandleIdentityEvent verifies a signed webhook and forwards user lifecycle
// events onto the job queue.
// POST /api/webhooks/identity
func (ctrl *WebhookController) HandleIdentityEvent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	for _, header := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
		if c.GetHeader(header) == "" {
			log.Warn("Webhook rejected: missing signature headers", map[string]interface{}{
				"header": header,
			})
			apperrors.BadRequest(c, apperrors.WebhookMissingHeaders, "Missing Svix headers")
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Error("Failed to read webhook body", err)
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Could not read request body")
		return
	}

	if err := ctrl.verifier.Verify(body, c.Request.Header); err != nil {
		log.Warn("Webhook signature verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.WebhookVerificationFailed, "Webhook verification failed")
		return
	}

	var event identityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("Failed to decode webhook event", err)
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Malformed webhook event")
		return
	}

	channel, relay := relayedEvents[event.Type]
	if relay {
		if err := ctrl.publisher.Send(c.Request.Context(), channel, event.Data); err != nil {
			log.Error("Failed to enqueue identity event", err, map[string]interface{}{
				"event_type": event.Type,
			})
			apperrors.InternalError(c, "Failed to process webhook event")
			return
		}
	}

	log.Info("Webhook received", map[string]interface{}{
		"event_type": event.Type,
		"relayed":    relay,
	})
	c.String(http.StatusOK, "Webhook received")
}
