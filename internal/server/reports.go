package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/sadhanahub/sadhana/internal/report/domain"
)

func (s *Server) DevoteeReport(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	window, err := windowFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.reportSvc.Summarize(c.Request.Context(), id, window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) OverallReport(c *gin.Context) {
	window, err := windowFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summaries, err := s.reportSvc.RankAll(c.Request.Context(), window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

func windowFromQuery(c *gin.Context) (reportdomain.Window, error) {
	window := reportdomain.Window{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}
	if window.Start == "" || window.End == "" {
		return window, newValidationError("window", "invalid_window", "start and end are required")
	}
	return window, nil
}
