package pipeline

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ClicksTopic carries one message per resolved token.
const ClicksTopic = "clicks"

// RawClick is what the redirect path knows about a visit before
// classification.
type RawClick struct {
	LinkID     string    `json:"link_id"`
	Token      string    `json:"token"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Referrer   string    `json:"referrer,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ClickToMessage converts a raw click to a Watermill message.
func ClickToMessage(click RawClick) (*message.Message, error) {
	payload, err := json.Marshal(click)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("link_id", click.LinkID)
	return msg, nil
}

// MessageToClick extracts the raw click from a Watermill message.
func MessageToClick(msg *message.Message) (*RawClick, error) {
	var click RawClick
	if err := json.Unmarshal(msg.Payload, &click); err != nil {
		return nil, err
	}
	return &click, nil
}
