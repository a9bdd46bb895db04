package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/regloapp/reglo/internal/instances"
)

type realizeRequest struct {
	Scope   string `json:"scope"`
	TaskKey string `json:"taskKey"`
}

// handleRealize mints a process instance for the given scope and task
// key, or reports that one already exists. The same pair may be posted
// any number of times; only the first call creates.
func (s *Server) handleRealize(c *gin.Context) {
	var req realizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Scope = strings.TrimSpace(req.Scope)
	req.TaskKey = strings.TrimSpace(req.TaskKey)
	if req.Scope == "" || req.TaskKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope and taskKey are required"})
		return
	}

	outcome, inst, err := s.store.Realize(req.Scope, req.TaskKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     string(outcome),
		"instanceId": inst.InstanceID,
		"processKey": inst.ProcessKey,
	})
}

// handleListInstances returns known instances, optionally filtered by
// the scope query parameter.
func (s *Server) handleListInstances(c *gin.Context) {
	scope := strings.TrimSpace(c.Query("scope"))

	var list []instances.Instance
	if scope == "" {
		list = s.store.List()
	} else {
		list = s.store.ListByScope(scope)
	}
	c.JSON(http.StatusOK, gin.H{"instances": list})
}
