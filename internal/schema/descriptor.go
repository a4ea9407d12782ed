package schema

// TypeDescriptor is one unit of work handed to an emitter: a canonical
// name, the node it describes, and whether it renders as an enum.
type TypeDescriptor struct {
	Name   string `json:"name"`
	Node   *Node  `json:"node"`
	IsEnum bool   `json:"is_enum"`
}

// TypeBinding is the canonical name assigned to a resolved document,
// derived deterministically from its filename.
type TypeBinding struct {
	Name string `json:"name"`
	Path string `json:"path"` // normalized absolute path
}

// ExternalSchema is one external document reached during a run, paired
// with its canonical type binding. The driver emits exactly one artifact
// per entry.
type ExternalSchema struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Document *Node  `json:"-"`
}
