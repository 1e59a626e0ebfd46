package graphql

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// wireMessage is the frame shape exchanged with a subscription client,
// modeled on the graphql-ws text-frame protocol: a type discriminator plus
// an opaque payload.
type wireMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	wireMessageNext     = "next"
	wireMessageError    = "error"
	wireMessageComplete = "complete"
)

// EncodeSubscriptionEvent renders a SubscriptionEvent as the text-frame wire
// format a graphql-ws transport would send over a websocket.Conn, without
// requiring one to actually be open. It is used by the in-process
// subscription test harness so the bytes produced there are byte-for-byte
// what a real websocket.Conn.WriteMessage(websocket.TextMessage, ...) call
// would put on the wire.
func EncodeSubscriptionEvent(id string, event *SubscriptionEvent) ([]byte, error) {
	if event.Err != nil {
		payload, err := json.Marshal(jerrorsToPayload(event.Err))
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireMessage{Type: wireMessageError, ID: id, Payload: payload})
	}

	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{Type: wireMessageNext, ID: id, Payload: payload})
}

// EncodeSubscriptionComplete renders the terminal frame sent once a
// subscription's source channel closes.
func EncodeSubscriptionComplete(id string) ([]byte, error) {
	return json.Marshal(wireMessage{Type: wireMessageComplete, ID: id})
}

func jerrorsToPayload(err error) []map[string]interface{} {
	return []map[string]interface{}{{"message": err.Error()}}
}

// WebSocketFrameType reports which websocket opcode a transport should use
// to carry the frames EncodeSubscriptionEvent produces. Subscription frames
// are always JSON text, never binary.
const WebSocketFrameType = websocket.TextMessage
