package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentcortex/agentmemory/internal/memory"
	"github.com/agentcortex/agentmemory/internal/model"
)

type createConceptRequest struct {
	ConceptName     string          `json:"concept_name" binding:"required"`
	Definition      string          `json:"definition" binding:"required"`
	Properties      model.JSONValue `json:"properties"`
	Relationships   model.JSONValue `json:"relationships"`
	ConfidenceScore *float64        `json:"confidence_score"`
	Source          string          `json:"source"`
	Evidence        string          `json:"evidence"`
	Tags            []string        `json:"tags"`
	Categories      []string        `json:"categories"`
	LinkedEpisodes  []int64         `json:"linked_episodes"`
}

func (s *Server) createConcept(c *gin.Context) {
	var req createConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}

	id, err := s.memory.StoreConcept(req.ConceptName, req.Definition, memory.ConceptInput{
		Properties:      req.Properties,
		Relationships:   req.Relationships,
		ConfidenceScore: req.ConfidenceScore,
		Source:          req.Source,
		Evidence:        req.Evidence,
		Tags:            req.Tags,
		Categories:      req.Categories,
		LinkedEpisodes:  req.LinkedEpisodes,
	})
	if err != nil {
		BadRequestError(c, err.Error())
		return
	}
	CreatedResponse(c, "concept created", gin.H{"id": id})
}

func (s *Server) getConcept(c *gin.Context) {
	name := c.Param("name")
	m, ok, err := s.memory.RecallConcept(name)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if !ok {
		NotFoundError(c, "concept not found: "+name)
		return
	}
	SuccessResponse(c, "concept retrieved", m)
}

func (s *Server) searchConcepts(c *gin.Context) {
	query := c.Query("q")
	limit := clampLimit(queryInt(c, "limit", DefaultLimit))

	results, err := s.memory.SearchConcepts(query, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}

func (s *Server) deleteConcept(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequestError(c, "invalid id")
		return
	}

	deleted, err := s.memory.DeleteMemory(id, model.KindSemantic)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if !deleted {
		NotFoundErrorWithID(c, "concept", id)
		return
	}
	SuccessResponse(c, "concept deleted", gin.H{"deleted": true})
}
