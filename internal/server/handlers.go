package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonhuth/dsa/internal/catalog"
	"github.com/jonhuth/dsa/internal/step"
	"github.com/jonhuth/dsa/internal/store"
)

// CategorySummary is a category with the number of algorithms in it.
type CategorySummary struct {
	catalog.Category
	Count int `json:"count"`
}

// AlgorithmSummary is the list view of a catalog entry.
type AlgorithmSummary struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Category      string             `json:"category"`
	Difficulty    catalog.Difficulty `json:"difficulty"`
	Visualization step.Kind          `json:"visualization"`
	Tags          []string           `json:"tags"`
}

// ExecuteRequest is the body of the execute endpoints.
type ExecuteRequest struct {
	Input json.RawMessage `json:"input" binding:"required"`
}

// ExecuteResponse is one recorded run.
type ExecuteResponse struct {
	AlgorithmID string      `json:"algorithm_id"`
	RunID       string      `json:"run_id,omitempty"`
	Steps       []step.Step `json:"steps"`
	Count       int         `json:"count"`
	Hash        string      `json:"hash"`
	Cached      bool        `json:"cached"`
}

// SourceResponse is an algorithm's implementation source.
type SourceResponse struct {
	File   string `json:"file"`
	Source string `json:"source"`
}

// RunResponse is an archived run with its steps.
type RunResponse struct {
	store.Run
	Steps []step.Step `json:"steps"`
}

func (s *Server) listCategories(c *gin.Context) {
	cats := s.catalog.Categories()
	out := make([]CategorySummary, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategorySummary{Category: cat, Count: len(s.catalog.ByCategory(cat.ID))})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listAlgorithms(c *gin.Context) {
	category := c.Query("category")
	difficulty := catalog.Difficulty(c.Query("difficulty"))
	tag := c.Query("tag")

	out := []AlgorithmSummary{}
	for _, a := range s.catalog.Search(c.Query("q")) {
		if category != "" && a.Category != category {
			continue
		}
		if difficulty != "" && a.Difficulty != difficulty {
			continue
		}
		if tag != "" && !slices.Contains(a.Tags, tag) {
			continue
		}
		out = append(out, AlgorithmSummary{
			ID:            a.ID,
			Name:          a.Name,
			Category:      a.Category,
			Difficulty:    a.Difficulty,
			Visualization: a.Visualization,
			Tags:          a.Tags,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getAlgorithm(c *gin.Context) {
	a, ok := s.catalog.Algorithm(c.Param("id"))
	if !ok {
		notFound(c, "unknown algorithm: "+c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) getSource(c *gin.Context) {
	file, src, err := s.exec.Registry().Source(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SourceResponse{File: file, Source: string(src)})
}

func (s *Server) execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be {\"input\": {...}}")
		return
	}
	res, err := s.exec.ExecuteRun(c.Request.Context(), c.Param("id"), req.Input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ExecuteResponse{
		AlgorithmID: c.Param("id"),
		RunID:       res.Run.ID,
		Steps:       res.Steps,
		Count:       len(res.Steps),
		Hash:        res.Run.StepsHash,
		Cached:      res.Cached,
	})
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		notFound(c, "run archive is disabled")
		return
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := s.store.ListRuns(c.Request.Context(), c.Query("algorithm"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	if s.store == nil {
		notFound(c, "run archive is disabled")
		return
	}
	run, steps, err := s.store.ReadRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, RunResponse{Run: run, Steps: steps})
}
