// Package circuit builds the fixed demonstration program forwarded by the
// submission endpoint. It renders program text for the vendor to execute;
// it is not a circuit construction library.
package circuit

// DefaultBackend receives demonstration jobs when the caller names none
const DefaultBackend = "ibmq_qasm_simulator"

// DefaultShots is the sampler shot count for demonstration jobs
const DefaultShots = 1024

// bellQASM is a two-qubit Bell state preparation with measurement
const bellQASM = `OPENQASM 3.0;
include "stdgates.inc";
bit[2] c;
qubit[2] q;
h q[0];
cx q[0], q[1];
c[0] = measure q[0];
c[1] = measure q[1];
`

// BellProgram returns the sampler parameters for the fixed Bell-state
// demonstration circuit. Caller-supplied params are merged in without
// overriding the circuit or shot count.
func BellProgram(params map[string]any) map[string]any {
	merged := make(map[string]any, len(params)+2)
	for k, v := range params {
		merged[k] = v
	}
	merged["circuits"] = []any{bellQASM}
	merged["shots"] = DefaultShots
	return merged
}
