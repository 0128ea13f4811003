// Package events contains the WebSocket event contracts of SalesPulse.
package events

import (
	"time"

	"salespulse/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Sent to a client right after it connects
	MessageTypeConnection MessageType = "connection"
	// Broadcast when the dataset cache is cleared so dashboards re-render
	MessageTypeDatasetsReloaded MessageType = "datasets_reloaded"
	// Sent by browsers to keep the connection alive
	MessageTypeHeartbeat MessageType = "heartbeat"
)

// Message is the envelope of every WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// ConnectionData is the payload of a connection message
type ConnectionData struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}

// DatasetsReloadedData is the payload of a datasets_reloaded message
type DatasetsReloadedData struct {
	Reason         string                 `json:"reason"`
	ClearedEntries int                    `json:"cleared_entries"`
	Datasets       []domain.DatasetStatus `json:"datasets"`
}
