package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentcortex/agentmemory/internal/memory"
	"github.com/agentcortex/agentmemory/internal/model"
)

type createEpisodeRequest struct {
	Description        string          `json:"description" binding:"required"`
	Context             string          `json:"context"`
	Participants         []string        `json:"participants"`
	Location             string          `json:"location"`
	SensoryData          model.JSONValue `json:"sensory_data"`
	Observations         string          `json:"observations"`
	ImportanceScore      *float64        `json:"importance_score"`
	EmotionalValence     *float64        `json:"emotional_valence"`
	Tags                 []string        `json:"tags"`
	Categories           []string        `json:"categories"`
	AssociatedConcepts   []string        `json:"associated_concepts"`
}

func (s *Server) createEpisode(c *gin.Context) {
	var req createEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}

	id, err := s.memory.StoreEpisode(req.Description, memory.EpisodeInput{
		Context:            req.Context,
		Participants:       req.Participants,
		Location:           req.Location,
		SensoryData:        req.SensoryData,
		Observations:       req.Observations,
		ImportanceScore:    req.ImportanceScore,
		EmotionalValence:   req.EmotionalValence,
		Tags:               req.Tags,
		Categories:         req.Categories,
		AssociatedConcepts: req.AssociatedConcepts,
	})
	if err != nil {
		BadRequestError(c, err.Error())
		return
	}
	CreatedResponse(c, "episode created", gin.H{"id": id})
}

func (s *Server) getEpisode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequestError(c, "invalid id")
		return
	}

	m, ok, err := s.memory.RecallEpisode(id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if !ok {
		NotFoundErrorWithID(c, "episode", id)
		return
	}
	SuccessResponse(c, "episode retrieved", m)
}

func (s *Server) searchEpisodes(c *gin.Context) {
	query := c.Query("q")
	limit := clampLimit(queryInt(c, "limit", DefaultLimit))

	results, err := s.memory.SearchEpisodes(query, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}

func (s *Server) recentEpisodes(c *gin.Context) {
	days := queryInt(c, "days", 7)
	limit := clampLimit(queryInt(c, "limit", DefaultLimit))

	results, err := s.memory.GetRecentEpisodes(days, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}

func (s *Server) importantEpisodes(c *gin.Context) {
	minImportance := queryFloat(c, "min_importance", 70.0)
	limit := clampLimit(queryInt(c, "limit", DefaultLimit))

	results, err := s.memory.GetImportantEpisodes(minImportance, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}

func (s *Server) similarEpisodes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequestError(c, "invalid id")
		return
	}
	limit := clampLimit(queryInt(c, "limit", 10))

	results, err := s.memory.FindSimilarEpisodic(id, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}

func (s *Server) episodeChain(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequestError(c, "invalid id")
		return
	}
	maxDepth := queryInt(c, "max_depth", 5)

	chain, err := s.memory.GetMemoryChain(id, maxDepth)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", chain)
}

func (s *Server) deleteEpisode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequestError(c, "invalid id")
		return
	}

	deleted, err := s.memory.DeleteMemory(id, model.KindEpisodic)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if !deleted {
		NotFoundErrorWithID(c, "episode", id)
		return
	}
	SuccessResponse(c, "episode deleted", gin.H{"deleted": true})
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return n
}
