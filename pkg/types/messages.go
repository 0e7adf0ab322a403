package types

// Backend request bodies. Both endpoints answer with a status code only.

// POST api/room/assign
type AssignRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// POST api/room/status
type StatusRequest struct {
	Status string `json:"status"`
}

// GET api/room and api/room/{roomId} answer with a 2-D array whose entries are
// either null or {"name": string, "hostname": string|null, "status": string|null}.
// The client decodes it straight into room.Grid.
