package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
)

type devoteeRequest struct {
	Name       string `json:"name"`
	IsResident bool   `json:"is_resident"`
}

func (s *Server) ListDevotees(c *gin.Context) {
	devotees, err := s.rosterSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": devotees})
}

func (s *Server) AddDevotee(c *gin.Context) {
	var req devoteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	devotee, err := s.rosterSvc.Add(c.Request.Context(), rosterdomain.AddDevoteeRequest{
		Name:       req.Name,
		IsResident: req.IsResident,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": devotee})
}

func (s *Server) UpdateDevotee(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req devoteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updated, err := s.rosterSvc.Update(c.Request.Context(), rosterdomain.UpdateDevoteeRequest{
		ID:         id,
		Name:       req.Name,
		IsResident: req.IsResident,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": updated}})
}

func (s *Server) RemoveDevotee(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	removed, err := s.rosterSvc.Remove(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"removed": removed}})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}
