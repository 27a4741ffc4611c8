package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentcortex/agentmemory/internal/memory"
	"github.com/agentcortex/agentmemory/internal/model"
)

type createProcedureRequest struct {
	ProcedureName string          `json:"procedure_name" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Steps         []string        `json:"steps" binding:"required"`
	Purpose       string          `json:"purpose"`
	Parameters    model.JSONValue `json:"parameters"`
	SuccessRate   *float64        `json:"success_rate"`
	Prerequisites []string        `json:"prerequisites"`
	Dependencies  string          `json:"dependencies"`
	Tags          []string        `json:"tags"`
	Categories    []string        `json:"categories"`
}

func (s *Server) createProcedure(c *gin.Context) {
	var req createProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}

	id, err := s.memory.StoreProcedure(req.ProcedureName, req.Description, req.Steps, memory.ProcedureInput{
		Purpose:       req.Purpose,
		Parameters:    req.Parameters,
		SuccessRate:   req.SuccessRate,
		Prerequisites: req.Prerequisites,
		Dependencies:  req.Dependencies,
		Tags:          req.Tags,
		Categories:    req.Categories,
	})
	if err != nil {
		BadRequestError(c, err.Error())
		return
	}
	CreatedResponse(c, "procedure created", gin.H{"id": id})
}

func (s *Server) getProcedure(c *gin.Context) {
	name := c.Param("name")
	m, ok, err := s.memory.RecallProcedure(name)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if !ok {
		NotFoundError(c, "procedure not found: "+name)
		return
	}
	SuccessResponse(c, "procedure retrieved", m)
}

func (s *Server) searchProcedures(c *gin.Context) {
	query := c.Query("q")
	limit := clampLimit(queryInt(c, "limit", DefaultLimit))

	results, err := s.memory.SearchProcedures(query, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}

type executeProcedureRequest struct {
	Success  bool     `json:"success"`
	Duration *float64 `json:"duration_seconds"`
}

func (s *Server) executeProcedure(c *gin.Context) {
	name := c.Param("name")
	var req executeProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}

	if err := s.memory.ExecuteProcedure(name, req.Success, req.Duration); err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "procedure execution recorded", nil)
}

func (s *Server) deleteProcedure(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequestError(c, "invalid id")
		return
	}

	deleted, err := s.memory.DeleteMemory(id, model.KindProcedural)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if !deleted {
		NotFoundErrorWithID(c, "procedure", id)
		return
	}
	SuccessResponse(c, "procedure deleted", gin.H{"deleted": true})
}
