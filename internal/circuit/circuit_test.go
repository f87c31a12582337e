package circuit

import (
	"strings"
	"testing"
)

func TestBellProgramDefaults(t *testing.T) {
	params := BellProgram(nil)

	circuits, ok := params["circuits"].([]any)
	if !ok || len(circuits) != 1 {
		t.Fatalf("circuits = %v, want one program", params["circuits"])
	}
	qasm, _ := circuits[0].(string)
	if !strings.HasPrefix(qasm, "OPENQASM 3.0;") {
		t.Errorf("circuit is not OpenQASM 3: %q", qasm)
	}
	for _, gate := range []string{"h q[0];", "cx q[0], q[1];", "measure"} {
		if !strings.Contains(qasm, gate) {
			t.Errorf("circuit missing %q", gate)
		}
	}
	if params["shots"] != DefaultShots {
		t.Errorf("shots = %v, want %d", params["shots"], DefaultShots)
	}
}

func TestBellProgramMerge(t *testing.T) {
	in := map[string]any{"tags": []any{"demo"}, "shots": 9999, "circuits": "bogus"}

	params := BellProgram(in)

	if tags, ok := params["tags"].([]any); !ok || len(tags) != 1 {
		t.Errorf("caller param lost: tags = %v", params["tags"])
	}
	// circuit and shot count are fixed; callers cannot override them
	if params["shots"] != DefaultShots {
		t.Errorf("shots = %v, want fixed %d", params["shots"], DefaultShots)
	}
	if _, ok := params["circuits"].([]any); !ok {
		t.Errorf("circuits overridden to %v", params["circuits"])
	}

	// input map must not be mutated
	if in["shots"] != 9999 || in["circuits"] != "bogus" {
		t.Error("caller's map was mutated")
	}
	if _, ok := in["tags"]; !ok {
		t.Error("caller's map was mutated")
	}
}
