package api

import (
	"encoding/json"
	"testing"
)

func TestDecodeResults_Variants(t *testing.T) {
	tests := []struct {
		runType string
		raw     string
		check   func(t *testing.T, r *RunResults)
	}{
		{
			runType: "attack",
			raw:     `{"total_prompts":100,"blocked":92,"succeeded":8,"pass_rate":0.92}`,
			check: func(t *testing.T, r *RunResults) {
				if r.Kind != ResultAttack || r.Attack == nil {
					t.Fatalf("kind = %s, attack = %v", r.Kind, r.Attack)
				}
				if r.Attack.PassRate != 0.92 {
					t.Errorf("pass_rate = %v", r.Attack.PassRate)
				}
			},
		},
		{
			runType: "fingerprint",
			raw:     `{"family":"gpt","confidence":0.87,"markers":["tokenizer","refusal-style"]}`,
			check: func(t *testing.T, r *RunResults) {
				if r.Kind != ResultFingerprint || r.Fingerprint == nil {
					t.Fatalf("kind = %s", r.Kind)
				}
				if r.Fingerprint.Family != "gpt" || len(r.Fingerprint.Markers) != 2 {
					t.Errorf("fingerprint = %+v", r.Fingerprint)
				}
			},
		},
		{
			runType: "rag_eval",
			raw:     `{"groundedness":0.8,"relevance":0.9,"leak_rate":0.01,"contexts":40}`,
			check: func(t *testing.T, r *RunResults) {
				if r.Kind != ResultRAGEval || r.RAGEval == nil {
					t.Fatalf("kind = %s", r.Kind)
				}
				if r.RAGEval.Contexts != 40 {
					t.Errorf("contexts = %d", r.RAGEval.Contexts)
				}
			},
		},
		{
			runType: "multimodal_eval",
			raw:     `{"image_attacks":12,"audio_attacks":3,"bypass_rate":0.2}`,
			check: func(t *testing.T, r *RunResults) {
				if r.Kind != ResultMultimodal || r.Multimodal == nil {
					t.Fatalf("kind = %s", r.Kind)
				}
			},
		},
		{
			runType: "tool_eval",
			raw:     `{"tool_calls":50,"unsafe_calls":2}`,
			check: func(t *testing.T, r *RunResults) {
				if r.Kind != ResultToolEval || r.ToolEval == nil {
					t.Fatalf("kind = %s", r.Kind)
				}
			},
		},
		{
			runType: "calibration",
			raw:     `{"agreement_rate":0.95,"suggested_thresholds":{"toxicity":0.7}}`,
			check: func(t *testing.T, r *RunResults) {
				if r.Kind != ResultCalibration || r.Calibration == nil {
					t.Fatalf("kind = %s", r.Kind)
				}
				if r.Calibration.Suggested["toxicity"] != 0.7 {
					t.Errorf("suggested = %v", r.Calibration.Suggested)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.runType, func(t *testing.T) {
			res, err := DecodeResults(tt.runType, json.RawMessage(tt.raw))
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, res)
		})
	}
}

func TestDecodeResults_ExactlyOneVariant(t *testing.T) {
	res, err := DecodeResults("rag_eval", json.RawMessage(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	nonNil := 0
	for _, p := range []bool{
		res.Attack != nil, res.Fingerprint != nil, res.RAGEval != nil,
		res.Multimodal != nil, res.ToolEval != nil, res.Calibration != nil,
	} {
		if p {
			nonNil++
		}
	}
	if nonNil != 1 {
		t.Errorf("non-nil variants = %d, want exactly 1", nonNil)
	}
}

func TestDecodeResults_Empty(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		res, err := DecodeResults("attack", json.RawMessage(raw))
		if err != nil {
			t.Errorf("empty payload %q should not error: %v", raw, err)
		}
		if res != nil {
			t.Errorf("empty payload %q should decode to nil", raw)
		}
	}
}

func TestDecodeResults_UnknownTypeDefaultsToAttack(t *testing.T) {
	res, err := DecodeResults("something-new", json.RawMessage(`{"pass_rate":0.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != ResultAttack || res.Attack == nil {
		t.Errorf("unknown run type should fall back to attack, got %s", res.Kind)
	}
}

func TestDecodeResults_Malformed(t *testing.T) {
	if _, err := DecodeResults("attack", json.RawMessage(`{broken`)); err == nil {
		t.Error("malformed payload should error")
	}
}
