package queue

import "encoding/json"

// Message is an alert fan-out job consumed by the worker: notify devices
// near the detection location about the disease.
type Message struct {
	EventID    string  `json:"eventId"`
	Disease    string  `json:"disease"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RequestID  string  `json:"requestId"`
	EnqueuedAt string  `json:"enqueuedAt"`
	Version    int     `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
