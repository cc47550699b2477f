package httpapi

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/health"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/search"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

type collectionListResponse struct {
	Collections []vectordb.Collection `json:"collections"`
	Total       int                   `json:"total"`
}

type batchUpsertRequest struct {
	Points []vectordb.Point `json:"points"`
}

type deletePointsRequest struct {
	IDs []vectordb.PointID `json:"ids"`
}

type countResponse struct {
	Count int `json:"count"`
}

type searchRequest struct {
	Vector         []float32           `json:"vector"`
	Limit          *int                `json:"limit"`
	ScoreThreshold *float32            `json:"score_threshold"`
	Filter         vectordb.FilterSpec `json:"filter"`
	WithPayload    *bool               `json:"with_payload"`
	WithVector     bool                `json:"with_vector"`
}

type searchResponse struct {
	Results     []vectordb.ScoredPoint `json:"results"`
	Total       int                    `json:"total"`
	Limit       int                    `json:"limit"`
	QueryTimeMS float64                `json:"query_time_ms"`
	IgnoredKeys []string               `json:"ignored_filter_keys,omitempty"`
}

type healthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Services map[string]health.Report `json:"services"`
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	all, err := s.collections.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionListResponse{Collections: all, Total: len(all)})
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collections.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	c, err := s.collections.Create(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.collections.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.collections.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpsertPoint(w http.ResponseWriter, r *http.Request) {
	var p vectordb.Point
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, err)
		return
	}
	stored, err := s.points.UpsertOne(r.Context(), chi.URLParam(r, "name"), p)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpsertBatch(w http.ResponseWriter, r *http.Request) {
	var req batchUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	n, err := s.points.Upsert(r.Context(), chi.URLParam(r, "name"), req.Points)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, countResponse{Count: n})
}

func (s *Server) handleGetPoint(w http.ResponseWriter, r *http.Request) {
	withVector := false
	if raw := r.URL.Query().Get("with_vector"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, string(vectordb.KindValidation),
				"with_vector must be a boolean", map[string]any{"with_vector": raw})
			return
		}
		withVector = v
	}

	collection := chi.URLParam(r, "name")
	raw := chi.URLParam(r, "id")

	p, found, err := s.points.Lookup(r.Context(), collection, raw, withVector)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, codePointNotFound, "point '"+raw+"' not found",
			map[string]any{"collection": collection, "id": raw})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePoint(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "name")

	// the path segment is ambiguous for all-digit ids, so delete whichever
	// form is actually stored
	p, found, err := s.points.Lookup(r.Context(), collection, chi.URLParam(r, "id"), false)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if found {
		if _, err := s.points.Delete(r.Context(), collection, []vectordb.PointID{p.ID}); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePoints(w http.ResponseWriter, r *http.Request) {
	var req deletePointsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	n, err := s.points.Delete(r.Context(), chi.URLParam(r, "name"), req.IDs)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	q := search.Query{
		Vector:         req.Vector,
		Limit:          s.cfg.DefaultSearchLimit,
		ScoreThreshold: req.ScoreThreshold,
		Filter:         req.Filter,
		WithPayload:    true,
		WithVector:     req.WithVector,
	}
	if req.Limit != nil {
		q.Limit = *req.Limit
	}
	if req.WithPayload != nil {
		q.WithPayload = *req.WithPayload
	}

	res, err := s.search.Search(r.Context(), chi.URLParam(r, "name"), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Results:     res.Results,
		Total:       res.Total,
		Limit:       res.Limit,
		QueryTimeMS: milliseconds(res.QueryTime.Seconds()),
		IgnoredKeys: res.IgnoredFilterKeys,
	})
}

// handleHealth always answers 200; an unhealthy backend degrades the
// aggregate status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := "healthy"
	if !report.Healthy() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   status,
		Version:  s.version,
		Services: map[string]health.Report{"qdrant": report},
	})
}

func milliseconds(seconds float64) float64 {
	return math.Round(seconds*1e6) / 1e3
}
