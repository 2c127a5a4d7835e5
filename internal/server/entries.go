package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/sadhanahub/sadhana/internal/ledger/domain"
	"github.com/sadhanahub/sadhana/internal/ledger/entrycsv"
)

type recordEntryRequest struct {
	DevoteeID       string  `json:"devotee_id"`
	Date            string  `json:"date"`
	Mangla          float64 `json:"mangla"`
	Japa            float64 `json:"japa"`
	Lecture         float64 `json:"lecture"`
	TempleVisit     bool    `json:"temple_visit"`
	TempleVisitType string  `json:"temple_visit_type"`
}

func (s *Server) RecordEntry(c *gin.Context) {
	var req recordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	devoteeID, err := parseID(req.DevoteeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.ledgerSvc.Record(c.Request.Context(), ledgerdomain.RecordRequest{
		DevoteeID:       devoteeID,
		Date:            strings.TrimSpace(req.Date),
		Mangla:          req.Mangla,
		Japa:            req.Japa,
		Lecture:         req.Lecture,
		TempleVisit:     req.TempleVisit,
		TempleVisitType: ledgerdomain.TempleVisitType(req.TempleVisitType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) ListEntries(c *gin.Context) {
	filter, err := entryFilterFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.ledgerSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) DeleteEntry(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	deleted, err := s.ledgerSvc.Delete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": deleted}})
}

type bulkDeleteRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

func (s *Server) BulkDeleteEntries(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ids := make([]snowflake.ID, 0, len(req.EntryIDs))
	for _, raw := range req.EntryIDs {
		id, err := parseID(raw)
		if err != nil {
			// Unparsable ids count as failed items, not a batch abort.
			ids = append(ids, 0)
			continue
		}
		ids = append(ids, id)
	}

	report, err := s.ledgerSvc.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) ImportEntries(c *gin.Context) {
	rows, err := entrycsv.Read(c.Request.Body)
	if err != nil {
		AbortWithError(c, newValidationError("csv", "invalid_csv", "malformed csv payload"))
		return
	}

	report, err := s.ledgerSvc.Import(c.Request.Context(), rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) ExportEntries(c *gin.Context) {
	filter, err := entryFilterFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.ledgerSvc.Export(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := "entries_" + time.Now().UTC().Format(ledgerdomain.DateLayout) + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := entrycsv.Write(c.Writer, rows); err != nil {
		_ = c.Error(err)
	}
}

func entryFilterFromQuery(c *gin.Context) (ledgerdomain.ListRequest, error) {
	var filter ledgerdomain.ListRequest
	if raw := strings.TrimSpace(c.Query("devotee_id")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return filter, err
		}
		filter.DevoteeID = id
	}
	filter.From = strings.TrimSpace(c.Query("from"))
	filter.To = strings.TrimSpace(c.Query("to"))
	return filter, nil
}
