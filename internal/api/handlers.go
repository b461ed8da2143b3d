package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/domain"
	"github.com/gene-validity-server/internal/drafts"
	"github.com/gene-validity-server/internal/service"
)

// maxDocumentBytes bounds the evidence document payload. Real documents are a
// few hundred KB at most.
const maxDocumentBytes = 4 << 20

// handleScore scores a raw evidence document without persisting anything.
func (s *Server) handleScore(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes))
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "failed to read request body", err)
		return
	}

	result, err := s.scorer.ScoreRaw(raw)
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "malformed evidence document", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"report": service.Report(result),
	})
}

// createCurationRequest is the payload for creating a curation.
type createCurationRequest struct {
	GeneSymbol        string                  `json:"gene_symbol" binding:"required"`
	DiseaseID         string                  `json:"disease_id" binding:"required"`
	DiseaseName       string                  `json:"disease_name"`
	ModeOfInheritance string                  `json:"mode_of_inheritance"`
	Curator           string                  `json:"curator"`
	EvidenceData      domain.EvidenceDocument `json:"evidence_data"`
}

func (s *Server) handleCreateCuration(c *gin.Context) {
	var req createCurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid curation payload", err)
		return
	}

	curation := &domain.CurationRecord{
		GeneSymbol:        req.GeneSymbol,
		DiseaseID:         req.DiseaseID,
		DiseaseName:       req.DiseaseName,
		ModeOfInheritance: req.ModeOfInheritance,
		Curator:           req.Curator,
		EvidenceData:      req.EvidenceData,
	}

	service.ClampDocument(&curation.EvidenceData)
	curation.Score = s.scorer.Score(&curation.EvidenceData)

	if err := s.store.Create(c.Request.Context(), curation); err != nil {
		s.curationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, curation)
}

func (s *Server) handleGetCuration(c *gin.Context) {
	id, ok := s.curationID(c)
	if !ok {
		return
	}

	curation, err := s.store.GetByID(c.Request.Context(), id)
	if err != nil {
		s.curationError(c, err)
		return
	}

	c.JSON(http.StatusOK, curation)
}

func (s *Server) handleListCurations(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	gene := c.Query("gene")
	statusParam := c.Query("status")

	var (
		curations []*domain.CurationRecord
		err       error
	)
	switch {
	case gene != "":
		curations, err = s.store.ListByGene(c.Request.Context(), gene, limit, offset)
	case statusParam != "":
		status := domain.CurationStatus(statusParam)
		if !status.IsValid() {
			s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "unknown curation status", nil)
			return
		}
		curations, err = s.store.ListByStatus(c.Request.Context(), status, limit, offset)
	default:
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "gene or status query parameter is required", nil)
		return
	}

	if err != nil {
		s.abortWithError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to list curations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"curations": curations,
		"count":     len(curations),
	})
}

// updateCurationRequest carries the editable fields plus the caller's lock
// version for optimistic concurrency.
type updateCurationRequest struct {
	DiseaseName       string                  `json:"disease_name"`
	ModeOfInheritance string                  `json:"mode_of_inheritance"`
	Curator           string                  `json:"curator"`
	EvidenceData      domain.EvidenceDocument `json:"evidence_data"`
	LockVersion       int                     `json:"lock_version"`
}

func (s *Server) handleUpdateCuration(c *gin.Context) {
	id, ok := s.curationID(c)
	if !ok {
		return
	}

	var req updateCurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid curation payload", err)
		return
	}

	curation, err := s.store.GetByID(c.Request.Context(), id)
	if err != nil {
		s.curationError(c, err)
		return
	}

	if curation.Status != domain.CurationDraft {
		s.abortWithError(c, http.StatusConflict, domain.ErrCodeTransition, "only draft curations can be edited", nil)
		return
	}

	curation.DiseaseName = req.DiseaseName
	curation.ModeOfInheritance = req.ModeOfInheritance
	curation.Curator = req.Curator
	curation.EvidenceData = req.EvidenceData
	curation.LockVersion = req.LockVersion

	service.ClampDocument(&curation.EvidenceData)
	curation.Score = s.scorer.Score(&curation.EvidenceData)

	if err := s.store.Update(c.Request.Context(), curation); err != nil {
		s.curationError(c, err)
		return
	}

	c.JSON(http.StatusOK, curation)
}

func (s *Server) handleDeleteCuration(c *gin.Context) {
	id, ok := s.curationID(c)
	if !ok {
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.curationError(c, err)
		return
	}

	if s.drafts != nil {
		if err := s.drafts.Purge(c.Request.Context(), id.String()); err != nil {
			s.log.WithError(err).WithField("curation_id", id).Warn("Failed to purge draft snapshots")
		}
	}

	c.Status(http.StatusNoContent)
}

// transitionRequest carries the lock version guarding a workflow transition.
type transitionRequest struct {
	LockVersion int `json:"lock_version"`
}

// transitionHandler builds a handler moving a curation into the target
// workflow stage.
func (s *Server) transitionHandler(target domain.CurationStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := s.curationID(c)
		if !ok {
			return
		}

		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid transition payload", err)
			return
		}

		curation, err := s.store.TransitionStatus(c.Request.Context(), id, target, req.LockVersion)
		if err != nil {
			s.curationError(c, err)
			return
		}

		// Snapshots are working state; submission freezes the document
		if target == domain.CurationSubmitted && s.drafts != nil {
			if err := s.drafts.Purge(c.Request.Context(), id.String()); err != nil {
				s.log.WithError(err).WithField("curation_id", id).Warn("Failed to purge draft snapshots")
			}
		}

		c.JSON(http.StatusOK, curation)
	}
}

// saveSnapshotRequest is the auto-save payload from the editor.
type saveSnapshotRequest struct {
	Curator      string                 `json:"curator"`
	Note         string                 `json:"note"`
	EvidenceData map[string]interface{} `json:"evidence_data" binding:"required"`
}

func (s *Server) handleSaveSnapshot(c *gin.Context) {
	if s.drafts == nil {
		s.abortWithError(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "draft snapshots are not configured", nil)
		return
	}

	id, ok := s.curationID(c)
	if !ok {
		return
	}

	var req saveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid snapshot payload", err)
		return
	}

	raw, err := json.Marshal(req.EvidenceData)
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid evidence document", err)
		return
	}

	snapshot := &drafts.Snapshot{
		CurationID:   id.String(),
		Curator:      req.Curator,
		Note:         req.Note,
		EvidenceData: raw,
	}

	if err := s.drafts.Save(c.Request.Context(), snapshot); err != nil {
		s.abortWithError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to save snapshot", err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

func (s *Server) handleListSnapshots(c *gin.Context) {
	if s.drafts == nil {
		s.abortWithError(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "draft snapshots are not configured", nil)
		return
	}

	id, ok := s.curationID(c)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	snapshots, err := s.drafts.List(c.Request.Context(), id.String(), limit, offset)
	if err != nil {
		s.abortWithError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to list snapshots", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

func (s *Server) handleLatestSnapshot(c *gin.Context) {
	if s.drafts == nil {
		s.abortWithError(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "draft snapshots are not configured", nil)
		return
	}

	id, ok := s.curationID(c)
	if !ok {
		return
	}

	snapshot, err := s.drafts.Latest(c.Request.Context(), id.String())
	if err != nil {
		s.abortWithError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "failed to load snapshot", err)
		return
	}
	if snapshot == nil {
		s.abortWithError(c, http.StatusNotFound, domain.ErrCodeNotFound, "no snapshots for curation", nil)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// curationID parses the :id path parameter, aborting with a 400 on failure.
func (s *Server) curationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid curation ID", err)
		return uuid.Nil, false
	}
	return id, true
}

// curationError maps repository errors onto HTTP statuses.
func (s *Server) curationError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.abortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid curation record", err)
	case errors.Is(err, domain.ErrNotFound):
		s.abortWithError(c, http.StatusNotFound, domain.ErrCodeNotFound, "curation not found", err)
	case errors.Is(err, domain.ErrStaleRecord):
		s.abortWithError(c, http.StatusConflict, domain.ErrCodeConflict, "curation was modified by another writer", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		s.abortWithError(c, http.StatusConflict, domain.ErrCodeTransition, "workflow transition not permitted", err)
	default:
		s.abortWithError(c, http.StatusInternalServerError, domain.ErrCodeDatabase, "curation operation failed", err)
	}
}

func (s *Server) abortWithError(c *gin.Context, status int, code, message string, err error) {
	requestID := c.GetString("correlation_id")

	details := ""
	if err != nil {
		details = err.Error()
		s.log.WithFields(logrus.Fields{
			"correlation_id": requestID,
			"status":         status,
			"code":           code,
			"error":          err,
		}).Warn(message)
	}

	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, requestID))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
