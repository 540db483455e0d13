package domain

type AdviceRequest struct {
	Context string `json:"context"`
	Data    any    `json:"data"`
}

type AdviceState string

const (
	AdvicePending AdviceState = "pending"
	AdviceReady   AdviceState = "ready"
	AdviceUnknown AdviceState = "unknown"
)

type AdviceStatus struct {
	Session     string      `json:"session"`
	State       AdviceState `json:"state"`
	Fingerprint string      `json:"fingerprint,omitempty"`
	Text        string      `json:"text,omitempty"`
}
