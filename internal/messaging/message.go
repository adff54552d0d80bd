package messaging

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// NodeSet addresses a group of remote execution nodes. It is passed through
// the core unmodified.
type NodeSet string

// MessageType distinguishes the commands understood by execution nodes.
type MessageType string

// TypeConfigure instructs a running application instance to update properties.
const TypeConfigure MessageType = "configure"

// Message is an addressed command for one application instance.
type Message struct {
	ID         string
	Type       MessageType
	AppID      string
	Properties map[string]cty.Value
}

// NewConfigure builds the configuration message that sets parameter to value
// on the application instance appID.
func NewConfigure(appID, parameter string, value cty.Value) *Message {
	return &Message{
		ID:         uuid.NewString(),
		Type:       TypeConfigure,
		AppID:      appID,
		Properties: map[string]cty.Value{parameter: value},
	}
}

type wireMessage struct {
	ID         string                             `json:"id"`
	Type       MessageType                        `json:"type"`
	AppID      string                             `json:"app_id"`
	Properties map[string]ctyjson.SimpleJSONValue `json:"properties"`
}

// MarshalJSON encodes the message in its wire form.
func (m *Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{
		ID:         m.ID,
		Type:       m.Type,
		AppID:      m.AppID,
		Properties: make(map[string]ctyjson.SimpleJSONValue, len(m.Properties)),
	}
	for k, v := range m.Properties {
		w.Properties[k] = ctyjson.SimpleJSONValue{Value: v}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire form. Property values come back with the
// types implied by their JSON encoding.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = w.ID
	m.Type = w.Type
	m.AppID = w.AppID
	m.Properties = make(map[string]cty.Value, len(w.Properties))
	for k, v := range w.Properties {
		m.Properties[k] = v.Value
	}
	return nil
}
