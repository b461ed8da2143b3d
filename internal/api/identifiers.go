package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gene-validity-server/internal/domain"
	"github.com/gene-validity-server/pkg/identifiers"
)

// handleValidateGene resolves a gene symbol through the HGNC validator.
func (s *Server) handleValidateGene(c *gin.Context) {
	if s.genes == nil {
		s.abortWithError(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "gene validation is not configured", nil)
		return
	}

	symbol := c.Query("symbol")
	if symbol == "" {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "symbol query parameter is required", nil)
		return
	}

	result, err := s.genes.ValidateGeneSymbol(c.Request.Context(), symbol)
	if err != nil {
		s.abortWithError(c, http.StatusBadGateway, domain.ErrCodeUpstream, "gene symbol lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleValidatePMID checks the shape of a PubMed identifier.
func (s *Server) handleValidatePMID(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "id query parameter is required", nil)
		return
	}

	normalized, err := identifiers.NormalizePMID(id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"is_valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_valid": true, "normalized": normalized})
}

// handleValidateHPO checks the shape of a Human Phenotype Ontology term.
func (s *Server) handleValidateHPO(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "term query parameter is required", nil)
		return
	}

	normalized, err := identifiers.NormalizeHPO(term)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"is_valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_valid": true, "normalized": normalized})
}
