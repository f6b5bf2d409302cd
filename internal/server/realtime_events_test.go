package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every pushed event uses the notification envelope so clients can route on
// a single top-level type.
func TestNotificationEnvelope_Contract(t *testing.T) {
	event := notificationEnvelope(EventSwapStatusUpdated,
		"Swap request updated", "Your swap request is now accepted",
		map[string]interface{}{"id": 7})

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "notification", decoded["type"])
	assert.Equal(t, EventSwapStatusUpdated, decoded["notificationType"])
	assert.Equal(t, "Swap request updated", decoded["title"])
	assert.Equal(t, "Your swap request is now accepted", decoded["message"])
	if assert.Contains(t, decoded, "payload") {
		payload := decoded["payload"].(map[string]interface{})
		assert.EqualValues(t, 7, payload["id"])
	}
}

func TestNotificationEnvelope_OmitsEmptyPayload(t *testing.T) {
	event := notificationEnvelope(EventAccountBanned, "Account banned",
		"Your account has been banned", nil)
	assert.NotContains(t, event, "payload")
}
