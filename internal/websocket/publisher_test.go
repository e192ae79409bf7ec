package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	mine := newMockClient("mine", user)
	other := newMockClient("other", uuid.New())
	hub.Register(mine)
	hub.Register(other)

	var publisher EventPublisher = hub
	publisher.Publish(ProfileCreated(map[string]interface{}{"id": "p1"}))
	publisher.PublishToUser(user, ProfileAvatarUpdated(map[string]interface{}{"avatarUrl": "u"}))

	// Allow async broadcast to complete
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, mine.GetMessages(), 2)
	assert.Len(t, other.GetMessages(), 1)
}
