package types

type ClientMessage struct {
	Type   string `json:"type"` // "Activate"
	Action string `json:"action,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"` // "Layout" | "Error"
	Version int    `json:"version,omitempty"`
	HTML    string `json:"html,omitempty"`
	Action  string `json:"action,omitempty"`
	Error   string `json:"error,omitempty"`
}
