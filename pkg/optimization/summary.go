// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single goal-seek directive.
type Summary struct {
	Scenario        string   `json:"scenario"`
	Parameter       string   `json:"parameter"`
	Metric          string   `json:"metric"`
	Target          float64  `json:"target"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	Achieved        float64  `json:"achieved"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}
