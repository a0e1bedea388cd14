package model

import "time"

// ConnectionType describes how a receipt printer is reached.
type ConnectionType string

const (
	ConnectionBluetooth ConnectionType = "Bluetooth"
	ConnectionUSB       ConnectionType = "USB"
	ConnectionNetwork   ConnectionType = "Network"
	ConnectionLocal     ConnectionType = "Local"
	ConnectionHTTP      ConnectionType = "HTTP"
	ConnectionQueue     ConnectionType = "Queue"
)

// Valid reports whether c is a known connection type.
func (c ConnectionType) Valid() bool {
	switch c {
	case ConnectionBluetooth, ConnectionUSB, ConnectionNetwork, ConnectionLocal, ConnectionHTTP, ConnectionQueue:
		return true
	}
	return false
}

// Printer is a configured print sink. The first configured printer is the default.
type Printer struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	ConnectionType ConnectionType `json:"connectionType"`
	Address        string         `json:"address"`
}

// PrintAck confirms that a print sink accepted a job.
type PrintAck struct {
	Printer   string    `json:"printer"`
	Reference string    `json:"reference,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}
