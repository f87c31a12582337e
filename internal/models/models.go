// Package models defines the API payload types served to the dashboard.
// Field names and JSON keys are part of the wire contract and must stay
// stable across provider changes.
package models

// JobStatus is the canonical job state vocabulary. Vendor statuses are
// normalized into this set before they reach a payload.
type JobStatus string

const (
	StatusQueued    JobStatus = "QUEUED"
	StatusRunning   JobStatus = "RUNNING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusError     JobStatus = "ERROR"
	StatusCancelled JobStatus = "CANCELLED"
	StatusCanceled  JobStatus = "CANCELED"
	StatusUnknown   JobStatus = "UNKNOWN"
)

// Live reports whether a job in this state still occupies the queue or
// a QPU.
func (s JobStatus) Live() bool {
	return s == StatusQueued || s == StatusRunning
}

// StatusEvent is one entry of a job's state transition history.
type StatusEvent struct {
	Status   string `json:"status"`
	Datetime string `json:"datetime"`
}

// StatusAndUsage groups the timeline and usage block shown on the job
// detail panel. Duration strings are pre-formatted; "N/A" marks values
// the vendor never reported.
type StatusAndUsage struct {
	Status              JobStatus      `json:"status"`
	TotalCompletionTime string         `json:"total_completion_time"`
	ActualQRUsage       map[string]any `json:"actual_qr_usage"`
	Created             string         `json:"created"`
	PendingTime         string         `json:"pending_time"`
	InProgress          string         `json:"in_progress"`
	QiskitRuntimeUsage  string         `json:"qiskit_runtime_usage"`
	Completed           string         `json:"completed"`
}

// CircuitInfo carries the circuit renderings attached to a job.
type CircuitInfo struct {
	Diagram any    `json:"diagram,omitempty"`
	QASM    string `json:"qasm"`
	Qiskit  string `json:"qiskit"`
}

// JobRecord is the projected view of a single runtime job.
type JobRecord struct {
	JobID           string          `json:"job_id"`
	User            string          `json:"user"`
	Region          string          `json:"region"`
	Program         string          `json:"program"`
	Instance        string          `json:"instance"`
	Mode            string          `json:"mode"`
	QuantumComputer string          `json:"quantum_computer"`
	Backend         string          `json:"backend"`
	Submitted       string          `json:"submitted"`
	ElapsedTime     float64         `json:"elapsed_time"`
	QPUSeconds      float64         `json:"qpu_seconds"`
	Logs            string          `json:"logs"`
	Status          JobStatus       `json:"status"`
	StatusHistory   []StatusEvent   `json:"status_history"`
	StatusAndUsage  *StatusAndUsage `json:"status_and_usage,omitempty"`
	Pubs            any             `json:"pubs,omitempty"`
	Result          any             `json:"result,omitempty"`
	Observables     any             `json:"observables,omitempty"`
	Circuit         *CircuitInfo    `json:"circuit,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// QubitCalibration is one row of the per-qubit calibration table.
// T1/T2 are in microseconds; nil means the parameter was not reported.
type QubitCalibration struct {
	Qubit        int      `json:"qubit"`
	T1           *float64 `json:"T1"`
	T2           *float64 `json:"T2"`
	ReadoutError float64  `json:"readout_error"`
}

// GateCalibration is one row of the per-gate calibration table.
type GateCalibration struct {
	Name   string  `json:"name"`
	Qubits []int   `json:"qubits"`
	Error  float64 `json:"error"`
	Gate   string  `json:"gate"`
}

// CalibrationData is the detailed calibration block of a backend record.
type CalibrationData struct {
	Qubits  []QubitCalibration `json:"qubits"`
	Gates   []GateCalibration  `json:"gates"`
	Metrics map[string]string  `json:"metrics"`
}

// BackendRecord is the projected view of a quantum device.
type BackendRecord struct {
	Name               string            `json:"name"`
	Status             string            `json:"status"`
	Operational        bool              `json:"operational"`
	StatusMsg          string            `json:"status_msg"`
	QubitCount         int               `json:"qubit_count"`
	PendingJobs        int               `json:"pending_jobs"`
	QPUVersion         string            `json:"qpu_version"`
	ProcessorType      string            `json:"processor_type"`
	BasisGates         []string          `json:"basis_gates"`
	Region             string            `json:"region"`
	CLOPS              any               `json:"clops,omitempty"`
	Metrics            map[string]string `json:"metrics,omitempty"`
	CalibrationMessage string            `json:"calibration_message,omitempty"`
	CalibrationData    *CalibrationData  `json:"calibration_data,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// MetricsSummary is the aggregate dashboard counter set, computed over a
// recent window of jobs.
type MetricsSummary struct {
	TotalJobs    int     `json:"total_jobs"`
	LiveJobs     int     `json:"live_jobs"`
	AvgWaitTime  float64 `json:"avg_wait_time"`
	SuccessRate  float64 `json:"success_rate"`
	OpenSessions int     `json:"open_sessions"`
	APISpeed     float64 `json:"api_speed"`
}

// JobSubmission is the request body accepted by the submission endpoint.
// All fields are optional; defaults are applied by the service layer.
type JobSubmission struct {
	ProgramID string         `json:"program_id"`
	Backend   string         `json:"backend"`
	Params    map[string]any `json:"params"`
}
