package api

import (
	"encoding/json"
	"fmt"
)

// ResultKind tags the variant of a run's results payload.
type ResultKind string

const (
	ResultAttack      ResultKind = "attack"
	ResultFingerprint ResultKind = "fingerprint"
	ResultRAGEval     ResultKind = "rag_eval"
	ResultMultimodal  ResultKind = "multimodal_eval"
	ResultToolEval    ResultKind = "tool_eval"
	ResultCalibration ResultKind = "calibration"
)

// RunResults is the decoded results payload of a finished run. Exactly
// one variant pointer is non-nil, matching Kind. Payloads are decoded
// here, at the API boundary, rather than inspected as loose maps by
// the rendering code.
type RunResults struct {
	Kind        ResultKind
	Attack      *AttackResults
	Fingerprint *FingerprintResults
	RAGEval     *RAGEvalResults
	Multimodal  *MultimodalResults
	ToolEval    *ToolEvalResults
	Calibration *CalibrationResults
}

// AttackResults summarizes a standard attack run.
type AttackResults struct {
	TotalPrompts int     `json:"total_prompts"`
	Blocked      int     `json:"blocked"`
	Succeeded    int     `json:"succeeded"`
	PassRate     float64 `json:"pass_rate"`
}

// FingerprintResults identifies the probable model family of a target.
type FingerprintResults struct {
	Family     string   `json:"family"`
	Confidence float64  `json:"confidence"`
	Markers    []string `json:"markers,omitempty"`
}

// RAGEvalResults scores a retrieval-augmented pipeline.
type RAGEvalResults struct {
	Groundedness float64 `json:"groundedness"`
	Relevance    float64 `json:"relevance"`
	LeakRate     float64 `json:"leak_rate"`
	Contexts     int     `json:"contexts"`
}

// MultimodalResults summarizes image/audio attack coverage.
type MultimodalResults struct {
	ImageAttacks int     `json:"image_attacks"`
	AudioAttacks int     `json:"audio_attacks"`
	BypassRate   float64 `json:"bypass_rate"`
}

// ToolEvalResults summarizes tool-calling safety checks.
type ToolEvalResults struct {
	ToolCalls   int                `json:"tool_calls"`
	UnsafeCalls int                `json:"unsafe_calls"`
	Categories  map[string]float64 `json:"categories,omitempty"`
}

// CalibrationResults carries suggested scoring thresholds.
type CalibrationResults struct {
	AgreementRate float64            `json:"agreement_rate"`
	Suggested     map[string]float64 `json:"suggested_thresholds,omitempty"`
}

// DecodeResults decodes a raw results payload into its typed variant
// based on the run type. An empty payload yields nil, not an error; an
// unknown run type defaults to the attack variant.
func DecodeResults(runType string, raw json.RawMessage) (*RunResults, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	kind := ResultKind(runType)
	switch kind {
	case ResultFingerprint, ResultRAGEval, ResultMultimodal, ResultToolEval, ResultCalibration:
	default:
		kind = ResultAttack
	}

	res := &RunResults{Kind: kind}
	var dst any
	switch kind {
	case ResultFingerprint:
		res.Fingerprint = &FingerprintResults{}
		dst = res.Fingerprint
	case ResultRAGEval:
		res.RAGEval = &RAGEvalResults{}
		dst = res.RAGEval
	case ResultMultimodal:
		res.Multimodal = &MultimodalResults{}
		dst = res.Multimodal
	case ResultToolEval:
		res.ToolEval = &ToolEvalResults{}
		dst = res.ToolEval
	case ResultCalibration:
		res.Calibration = &CalibrationResults{}
		dst = res.Calibration
	default:
		res.Attack = &AttackResults{}
		dst = res.Attack
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decoding %s results: %w", kind, err)
	}
	return res, nil
}
