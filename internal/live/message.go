package live

import "encoding/json"

// Client message types.
const (
	MsgMount     = "mount"
	MsgUnmount   = "unmount"
	MsgIntersect = "intersect"
	MsgNav       = "nav"
	MsgConfigure = "configure"
	MsgSubscribe = "subscribe"
)

// Message is sent by the browser.
type Message struct {
	Type       string    `json:"type"`
	Region     Region    `json:"region,omitempty"`
	Ratio      float64   `json:"ratio,omitempty"`
	Dir        Direction `json:"dir,omitempty"`
	Threshold  *float64  `json:"threshold,omitempty"`
	RootMargin string    `json:"root_margin,omitempty"`
	Email      string    `json:"email,omitempty"`
}

// Frame is sent by the server. Seq increases by one per frame.
type Frame struct {
	Type    string    `json:"type"`
	Session string    `json:"session"`
	Seq     uint64    `json:"seq"`
	State   *Snapshot `json:"state,omitempty"`
}

// FrameState carries a full Snapshot.
const FrameState = "state"

func decodeMessage(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}
