package model

import "time"

// CallOptions are per-call overrides for the request gateway. Zero values
// mean "use the configured default".
type CallOptions struct {
	APIKey   string
	Profile  string
	Endpoint string
	Timeout  time.Duration
}

// ServerHealth is the body of GET /health.
type ServerHealth struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	Version     string `json:"version"`
}

// VersionReport combines the CLI version with what the server reports.
type VersionReport struct {
	CLIVersion        string `json:"cli_version"`
	ServerVersion     string `json:"server_version"`
	ServerDescription string `json:"server_description"`
}

// AuthStatus is the body of GET /api/auth/status.
type AuthStatus struct {
	AuthEnabled bool   `json:"auth_enabled"`
	Method      string `json:"method"`
}

// AuthValidation is the body of POST /api/auth/validate.
type AuthValidation struct {
	Valid  bool     `json:"valid"`
	Prefix string   `json:"prefix,omitempty"`
	Name   string   `json:"name,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// JobState is the lifecycle state of a remote job.
type JobState string

const (
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// JobStatus is the body returned by remote job status endpoints. Progress is
// a percentage when the server reports one.
type JobStatus struct {
	JobID    string   `json:"job_id"`
	Status   JobState `json:"status"`
	Progress *float64 `json:"progress,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (s JobStatus) Done() bool {
	return s.Status == JobCompleted || s.Status == JobFailed
}
