package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sellora/sellora-backend/internal/app/model"
	"github.com/sellora/sellora-backend/internal/app/repository"
	"github.com/sellora/sellora-backend/pkg/logger"
)

// Identity event channels, named after the provider event types the relay
// forwards. The worker listens on all of them.
const (
	EventUserCreated = "clerk/user.created"
	EventUserUpdated = "clerk/user.updated"
	EventUserDeleted = "clerk/user.deleted"
)

func IdentityEventChannels() []string {
	return []string{EventUserCreated, EventUserUpdated, EventUserDeleted}
}

// IdentitySyncService applies relayed identity-provider lifecycle events to
// the local users table.
type IdentitySyncService interface {
	HandleEvent(eventName string, payload []byte) error
}

type identitySyncService struct {
	userRepo repository.UserRepository
}

func NewIdentitySyncService(userRepo repository.UserRepository) IdentitySyncService {
	return &identitySyncService{userRepo: userRepo}
}

// identityUserPayload is the subset of the provider's user object we keep.
type identityUserPayload struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (s *identitySyncService) HandleEvent(eventName string, payload []byte) error {
	logger.Info("Handling identity event", map[string]interface{}{
		"event": eventName,
		"bytes": len(payload),
	})

	var data identityUserPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("malformed identity event payload: %w", err)
	}
	if data.ID == "" {
		return fmt.Errorf("identity event payload has no user id")
	}

	switch eventName {
	case EventUserCreated, EventUserUpdated:
		user := &model.User{
			ID:    data.ID,
			Name:  displayName(data.FirstName, data.LastName),
			Image: data.ImageURL,
		}
		if len(data.EmailAddresses) > 0 {
			user.Email = data.EmailAddresses[0].EmailAddress
		}
		if err := s.userRepo.Upsert(user); err != nil {
			return err
		}

	case EventUserDeleted:
		if err := s.userRepo.Delete(data.ID); err != nil {
			return err
		}

	default:
		logger.Warn("Ignoring unknown identity event", map[string]interface{}{
			"event": eventName,
		})
		return nil
	}

	logger.Info("Identity event applied", map[string]interface{}{
		"event":   eventName,
		"user_id": data.ID,
	})
	return nil
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
