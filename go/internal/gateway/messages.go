package gateway

// MessageType discriminates messages on the session websocket
type MessageType string

const (
	// MessageTypeRender swaps HTML into a mount point (server to client)
	MessageTypeRender MessageType = "render"
	// MessageTypeClick reports a click on a data-role element (client to server)
	MessageTypeClick MessageType = "click"
)

// ServerMessage is sent to the browser
type ServerMessage struct {
	Type   MessageType `json:"type"`
	Target string      `json:"target"`
	HTML   string      `json:"html"`
}

// ClientMessage is received from the browser
type ClientMessage struct {
	Type MessageType `json:"type"`
	Role string      `json:"role"`
	ID   string      `json:"id,omitempty"`
}
