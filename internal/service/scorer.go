package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/domain"
)

// EngineVersion identifies the scoring rubric revision recorded on every
// result for audit trails.
const EngineVersion = "sop-v1"

// defaultCacheSize bounds the score memoization cache. Documents are small and
// curations are edited one at a time, so a few hundred entries is generous.
const defaultCacheSize = 512

// ScoringService composes the category calculators, the contradictory-evidence
// evaluator and the classification decision table into a single scoring pass.
//
// Scoring is a pure function of the evidence document: the service holds no
// per-curation state, and the LRU cache is a transparent memoization keyed by
// a digest of the document, safe because identical documents always score
// identically.
type ScoringService struct {
	logger *logrus.Logger
	cache  *lru.Cache[string, domain.ScoreResult]
	parser *domain.EvidenceDocumentParser
}

// NewScoringService creates a new scoring service.
func NewScoringService(logger *logrus.Logger) (*ScoringService, error) {
	cache, err := lru.New[string, domain.ScoreResult](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &ScoringService{
		logger: logger,
		cache:  cache,
		parser: domain.NewEvidenceDocumentParser(),
	}, nil
}

// Score computes the full score result for a typed evidence document.
func (s *ScoringService) Score(doc *domain.EvidenceDocument) *domain.ScoreResult {
	if doc == nil {
		doc = &domain.EvidenceDocument{}
	}

	genetic := CalculateGenetic(&doc.Genetic)
	experimental := CalculateExperimental(&doc.Experimental)
	contradiction := EvaluateContradictions(doc.Contradictory)
	classification := Classify(genetic.Total, experimental.Total)

	result := &domain.ScoreResult{
		GeneticTotal:      genetic.Total,
		ExperimentalTotal: experimental.Total,
		TotalScore:        genetic.Total + experimental.Total,
		Classification:    classification,
		Subtotals: domain.ScoreBreakdown{
			Genetic:      genetic,
			Experimental: experimental,
		},
		Contradiction: contradiction,
		CalculatedAt:  time.Now().UTC(),
		EngineVersion: EngineVersion,
	}

	s.logger.WithFields(logrus.Fields{
		"genetic_total":      domain.Round2(genetic.Total),
		"experimental_total": domain.Round2(experimental.Total),
		"total_score":        domain.Round2(result.TotalScore),
		"classification":     classification.String(),
		"has_contradiction":  contradiction.HasContradiction,
		"disputed_count":     contradiction.DisputedCount,
	}).Info("Evidence document scored")

	return result
}

// ScoreRaw parses a raw evidence_data document and scores it, memoizing by
// document digest. Malformed field values degrade to zero per the parser's
// contract; only structurally invalid JSON is an error.
func (s *ScoringService) ScoreRaw(raw []byte) (*domain.ScoreResult, error) {
	key := documentDigest(raw)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.WithField("digest", key[:12]).Debug("Score cache hit")
		result := cached
		return &result, nil
	}

	doc, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	result := s.Score(doc)
	s.cache.Add(key, *result)
	return result, nil
}

// documentDigest returns the cache key for a raw document. Marshaling through
// the map decode would normalize key order, but callers submit editor-owned
// documents whose byte form is stable between keystrokes, so hashing the raw
// bytes is sufficient and cheap.
func documentDigest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ScoreReport renders the presentation view of a result: totals rounded to two
// decimal places with the display color, suitable for export and audit
// payloads.
type ScoreReport struct {
	GeneticTotal      float64               `json:"geneticTotal"`
	ExperimentalTotal float64               `json:"experimentalTotal"`
	TotalScore        float64               `json:"totalScore"`
	Classification    domain.Classification `json:"classification"`
	Description       string                `json:"description"`
	Color             string                `json:"color"`
	HasContradiction  bool                  `json:"hasContradiction"`
}

// Report builds the rounded presentation view of a score result.
func Report(result *domain.ScoreResult) ScoreReport {
	return ScoreReport{
		GeneticTotal:      domain.Round2(result.GeneticTotal),
		ExperimentalTotal: domain.Round2(result.ExperimentalTotal),
		TotalScore:        domain.Round2(result.TotalScore),
		Classification:    result.Classification,
		Description:       result.Classification.Description(),
		Color:             result.Classification.DisplayColor(),
		HasContradiction:  result.Contradiction.HasContradiction,
	}
}

// MarshalResult serializes a score result for storage alongside the curation
// record.
func MarshalResult(result *domain.ScoreResult) ([]byte, error) {
	return json.Marshal(result)
}
