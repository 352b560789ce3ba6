package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// EvalKind selects a specialized evaluation launcher.
type EvalKind string

const (
	EvalFingerprint EvalKind = "fingerprint"
	EvalRAG         EvalKind = "rag-eval"
	EvalMultimodal  EvalKind = "multimodal-eval"
	EvalToolEval    EvalKind = "tool-eval"
)

// EvalKinds lists the supported evaluation launchers.
var EvalKinds = []EvalKind{EvalFingerprint, EvalRAG, EvalMultimodal, EvalToolEval}

// EvalRequest launches a specialized evaluation run. Config carries the
// evaluation-specific options verbatim.
type EvalRequest struct {
	TargetModel string          `json:"target_model"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// LaunchEval starts a specialized evaluation run and returns its id.
func (c *Client) LaunchEval(ctx context.Context, kind EvalKind, req EvalRequest) (string, error) {
	switch kind {
	case EvalFingerprint, EvalRAG, EvalMultimodal, EvalToolEval:
	default:
		return "", fmt.Errorf("unknown evaluation kind %q", kind)
	}
	var resp LaunchResponse
	if err := c.do(ctx, http.MethodPost, "/"+string(kind)+"/run", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
