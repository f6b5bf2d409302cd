package server

import (
	"context"
	"encoding/json"
	"log"

	"skillswap/internal/models"
)

// Event type constants prevent typos in event names.
const (
	EventSwapRequestReceived = "swap_request_received"
	EventSwapStatusUpdated   = "swap_status_updated"
	EventRatingReceived      = "rating_received"
	EventAdminBroadcast      = "admin_broadcast"
	EventAccountBanned       = "account_banned"
)

// notificationEnvelope is the push contract: every server-initiated message
// is typed "notification" and carries the event name plus human-readable
// title and message lines, with structured data under payload.
func notificationEnvelope(notificationType, title, message string, payload map[string]interface{}) map[string]interface{} {
	event := map[string]interface{}{
		"type":             "notification",
		"notificationType": notificationType,
		"title":            title,
		"message":          message,
	}
	if payload != nil {
		event["payload"] = payload
	}
	return event
}

// publishUserEvent delivers a notification to a single user. With Redis the
// event goes through pub/sub so every instance's hub can deliver it; the
// local subscriber started by StartWiring handles delivery here too. Without
// Redis the hub is fed directly.
func (s *Server) publishUserEvent(userID uint, eventType, title, message string, payload map[string]interface{}) {
	event := notificationEnvelope(eventType, title, message, payload)
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	raw := string(eventJSON)

	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, raw); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
		return
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, raw)
	}
}

func (s *Server) publishBroadcastEvent(eventType, title, message string, payload map[string]interface{}) {
	event := notificationEnvelope(eventType, title, message, payload)
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	raw := string(eventJSON)

	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), raw); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
		return
	}
	if s.hub != nil {
		s.hub.BroadcastAll(raw)
	}
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
	}
}

// swapSummary is the payload shape shared by all swap lifecycle events.
func swapSummary(swap *models.SwapRequest) map[string]interface{} {
	return map[string]interface{}{
		"id":               swap.ID,
		"status":           swap.Status,
		"requester_id":     swap.RequesterID,
		"provider_id":      swap.ProviderID(),
		"offered_skill_id": swap.OfferedSkillID,
		"wanted_skill_id":  swap.WantedSkillID,
	}
}
