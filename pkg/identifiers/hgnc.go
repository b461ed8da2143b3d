package identifiers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/gene-validity-server/internal/domain"
)

// HGNCClient validates gene symbols against the HUGO Gene Nomenclature
// Committee REST API. Calls are rate limited and guarded by a circuit breaker
// so a misbehaving upstream cannot stall curation writes.
type HGNCClient struct {
	baseURL    string
	httpClient *http.Client
	rateLimit  *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      *LookupCache
	logger     *logrus.Logger
}

// hgncResponse represents the JSON response structure from the HGNC search API.
type hgncResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			Symbol          string   `json:"symbol"`
			Name            string   `json:"name"`
			Status          string   `json:"status"`
			PreviousSymbols []string `json:"prev_symbol"`
			AliasSymbols    []string `json:"alias_symbol"`
			HGNCID          string   `json:"hgnc_id"`
			Location        string   `json:"location"`
		} `json:"docs"`
	} `json:"response"`
}

// GeneValidationResult represents a gene symbol validation outcome.
type GeneValidationResult struct {
	IsValid          bool     `json:"is_valid"`
	NormalizedSymbol string   `json:"normalized_symbol,omitempty"`
	HGNCID           string   `json:"hgnc_id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Location         string   `json:"location,omitempty"`
	DeprecatedFrom   string   `json:"deprecated_from,omitempty"`
	Suggestions      []string `json:"suggestions,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// NewHGNCClient creates a new HGNC validator. The cache is optional; pass nil
// to query the API on every call.
func NewHGNCClient(cfg domain.HGNCConfig, cache *LookupCache, logger *logrus.Logger) *HGNCClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://rest.genenames.org"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 3 // HGNC recommendation: 3 requests per second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "HGNC",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &HGNCClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimit: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breaker:   breaker,
		cache:     cache,
		logger:    logger,
	}
}

// ValidateGeneSymbol validates a gene symbol against HGNC, resolving previous
// symbols and aliases to the current official symbol.
func (h *HGNCClient) ValidateGeneSymbol(ctx context.Context, geneSymbol string) (*GeneValidationResult, error) {
	originalSymbol := geneSymbol
	geneSymbol = strings.TrimSpace(strings.ToUpper(geneSymbol))

	if geneSymbol == "" {
		return &GeneValidationResult{
			IsValid:          false,
			ValidationErrors: []string{"Gene symbol cannot be empty"},
		}, nil
	}

	if h.cache != nil {
		if cached, found, err := h.cache.GetGeneValidation(ctx, geneSymbol); err == nil && found {
			return cached, nil
		}
	}

	if err := h.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	data, err := h.breaker.Execute(func() (interface{}, error) {
		return h.searchGeneSymbol(ctx, geneSymbol)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, fmt.Errorf("HGNC service unavailable (circuit breaker open): %w", err)
		}
		return nil, fmt.Errorf("failed to validate gene symbol %s: %w", geneSymbol, err)
	}
	hgncData := data.(*hgncResponse)

	result := h.resolveSymbol(hgncData, geneSymbol, originalSymbol)

	if h.cache != nil {
		if err := h.cache.SetGeneValidation(ctx, geneSymbol, result, 0); err != nil {
			h.logger.WithError(err).WithField("symbol", geneSymbol).Debug("Failed to cache gene validation")
		}
	}

	return result, nil
}

func (h *HGNCClient) resolveSymbol(hgncData *hgncResponse, geneSymbol, originalSymbol string) *GeneValidationResult {
	result := &GeneValidationResult{}

	if len(hgncData.Response.Docs) > 0 {
		doc := hgncData.Response.Docs[0]

		if doc.Symbol == geneSymbol {
			result.IsValid = true
			result.NormalizedSymbol = doc.Symbol
			result.HGNCID = doc.HGNCID
			result.Name = doc.Name
			result.Location = doc.Location
			return result
		}

		for _, prevSymbol := range doc.PreviousSymbols {
			if strings.ToUpper(prevSymbol) == geneSymbol {
				result.IsValid = true
				result.NormalizedSymbol = doc.Symbol
				result.HGNCID = doc.HGNCID
				result.DeprecatedFrom = prevSymbol
				result.Suggestions = []string{fmt.Sprintf("Current symbol: %s (was: %s)", doc.Symbol, prevSymbol)}
				return result
			}
		}

		for _, aliasSymbol := range doc.AliasSymbols {
			if strings.ToUpper(aliasSymbol) == geneSymbol {
				result.IsValid = true
				result.NormalizedSymbol = doc.Symbol
				result.HGNCID = doc.HGNCID
				result.Suggestions = []string{fmt.Sprintf("Official symbol: %s (alias: %s)", doc.Symbol, aliasSymbol)}
				return result
			}
		}
	}

	result.IsValid = false
	result.ValidationErrors = []string{fmt.Sprintf("Gene symbol '%s' not found in HGNC database", originalSymbol)}
	return result
}

// searchGeneSymbol performs the actual API call to search for a gene symbol.
func (h *HGNCClient) searchGeneSymbol(ctx context.Context, geneSymbol string) (*hgncResponse, error) {
	params := url.Values{
		"q":      {fmt.Sprintf("symbol:%s OR prev_symbol:%s OR alias_symbol:%s", geneSymbol, geneSymbol, geneSymbol)},
		"rows":   {"10"},
		"format": {"json"},
	}

	searchURL := fmt.Sprintf("%s/search?%s", h.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Gene-Validity-Server/1.0")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HGNC API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed hgncResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return &parsed, nil
}

// BreakerState returns the current circuit breaker state for health reporting.
func (h *HGNCClient) BreakerState() gobreaker.State {
	return h.breaker.State()
}
