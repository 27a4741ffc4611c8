package api

import (
	"github.com/gin-gonic/gin"

	"github.com/agentcortex/agentmemory/internal/store"
)

func (s *Server) healthHandler(c *gin.Context) {
	SuccessResponse(c, "ok", gin.H{"status": "healthy"})
}

func (s *Server) statsHandler(c *gin.Context) {
	stats, err := s.memory.GetStatistics()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", stats)
}

type backupRequest struct {
	DestPath string `json:"dest_path" binding:"required"`
}

func (s *Server) backupHandler(c *gin.Context) {
	var req backupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequestError(c, err.Error())
		return
	}
	if err := s.memory.Backup(req.DestPath); err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "backup written", gin.H{"path": req.DestPath})
}

func (s *Server) exportHandler(c *gin.Context) {
	snap, err := s.memory.ExportAll()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", snap)
}

func (s *Server) importHandler(c *gin.Context) {
	var snap store.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		BadRequestError(c, err.Error())
		return
	}
	result := s.memory.ImportMemories(&snap)
	SuccessResponse(c, "import complete", result)
}

type consolidateRequest struct {
	DryRun bool `json:"dry_run"`
}

func (s *Server) consolidateHandler(c *gin.Context) {
	var req consolidateRequest
	_ = c.ShouldBindJSON(&req)

	result, err := s.memory.ConsolidateMemories(req.DryRun)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", result)
}

func (s *Server) tagFanOut(c *gin.Context) {
	tag := c.Param("tag")
	limit := clampLimit(queryInt(c, "limit", DefaultLimit))

	results, err := s.memory.SearchByTag(tag, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	SuccessResponse(c, "ok", results)
}
