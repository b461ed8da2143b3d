package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gene-validity-server/internal/domain"
	"github.com/gene-validity-server/internal/service"
)

// ScoreEvidenceParams carries a raw evidence document to score.
type ScoreEvidenceParams struct {
	Evidence map[string]interface{} `json:"evidence"`
}

// ClassifyTotalsParams carries pre-computed totals for classification.
type ClassifyTotalsParams struct {
	GeneticTotal      float64 `json:"genetic_total"`
	ExperimentalTotal float64 `json:"experimental_total"`
}

// ClassifyTotalsResult is the output of the classify_totals tool.
type ClassifyTotalsResult struct {
	Classification string  `json:"classification"`
	Description    string  `json:"description"`
	TotalPoints    float64 `json:"total_points"`
}

// EvidenceCapEntry describes one evidence category in the evidence_caps output.
type EvidenceCapEntry struct {
	Category      string  `json:"category"`
	MinPoints     float64 `json:"min_points"`
	MaxPoints     float64 `json:"max_points"`
	DefaultPoints float64 `json:"default_points"`
}

// decodeParams re-encodes the loosely-typed tool arguments into a typed
// params struct.
func decodeParams(req *mcp.CallToolRequest, v interface{}) error {
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("encoding tool arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding tool arguments: %w", err)
	}
	return nil
}

func (s *Server) handleScoreEvidence(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", "score_evidence").Info("Tool invoked")

	var params ScoreEvidenceParams
	if err := decodeParams(req, &params); err != nil {
		return errorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if params.Evidence == nil {
		return errorResult("evidence document is required"), nil
	}

	raw, err := json.Marshal(params.Evidence)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid evidence document: %v", err)), nil
	}
	result, err := s.scorer.ScoreRaw(raw)
	if err != nil {
		return errorResult(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	return jsonResult(service.Report(result))
}

func (s *Server) handleClassifyTotals(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", "classify_totals").Info("Tool invoked")

	var params ClassifyTotalsParams
	if err := decodeParams(req, &params); err != nil {
		return errorResult(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	classification := service.Classify(params.GeneticTotal, params.ExperimentalTotal)
	return jsonResult(ClassifyTotalsResult{
		Classification: classification.String(),
		Description:    classification.Description(),
		TotalPoints:    domain.Round2(params.GeneticTotal + params.ExperimentalTotal),
	})
}

func (s *Server) handleEvidenceCaps(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", "evidence_caps").Info("Tool invoked")

	categories := domain.EvidenceCategories()
	entries := make([]EvidenceCapEntry, 0, len(categories))
	for _, cat := range categories {
		r := cat.Range()
		entries = append(entries, EvidenceCapEntry{
			Category:      string(cat),
			MinPoints:     r.Min,
			MaxPoints:     r.Max,
			DefaultPoints: r.Default,
		})
	}
	return jsonResult(entries)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
