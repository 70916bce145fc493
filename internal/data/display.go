package data

// StateKind enumerates the mutually exclusive display states.
type StateKind string

const (
	StateDeleting            StateKind = "deleting"
	StateNegotiatingMetadata StateKind = "negotiatingMetadata"
	StateVerifyingFiles      StateKind = "verifyingFiles"
	StateTransferring        StateKind = "transferring"
	StateSeeding             StateKind = "seeding"
	StateFinished            StateKind = "finished"
	StatePaused              StateKind = "paused"
	StateActive              StateKind = "active"
	StateFallback            StateKind = "fallback"
)

// SizeUnknown is reported as TotalSize when neither the persisted record
// nor this entry's in-flight packet knows the total.
const SizeUnknown int64 = -1

// DisplayState is the resolved status for one entry. It is recomputed on
// every resolution call and never stored. Fields beyond Kind are populated
// only where the state carries them.
type DisplayState struct {
	Kind            StateKind `json:"kind"`
	Progress        float64   `json:"progress,omitempty"`
	BytesDownloaded int64     `json:"bytesDownloaded,omitempty"`
	TotalSize       int64     `json:"totalSize,omitempty"`
	NumPeers        int       `json:"numPeers,omitempty"`
	NumSeeds        int       `json:"numSeeds,omitempty"`
	UploadSpeed     int64     `json:"uploadSpeed,omitempty"`
	Queued          bool      `json:"queued,omitempty"`
	// RawStatus carries the verbatim engine status for StateFallback.
	RawStatus string `json:"rawStatus,omitempty"`
}

// ActionKind enumerates the operations a user can invoke on an entry.
type ActionKind string

const (
	ActionInstall       ActionKind = "install"
	ActionStopSeeding   ActionKind = "stopSeeding"
	ActionResumeSeeding ActionKind = "resumeSeeding"
	ActionDelete        ActionKind = "delete"
	ActionPause         ActionKind = "pause"
	ActionResume        ActionKind = "resume"
	ActionCancel        ActionKind = "cancel"
)

// Action is one user-invokable operation. Visible controls whether it is
// offered at all; Enabled controls whether invocation is permitted. The two
// are computed independently, so an action can be visible but disabled.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Enabled bool       `json:"enabled"`
	Visible bool       `json:"visible"`
}
