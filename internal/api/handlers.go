package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/ingest"
	"github.com/jonesrussell/fundwatch/internal/logger"
)

const defaultRunsLimit = 20

type handler struct {
	log     logger.Interface
	queries QueryService
	runner  IngestRunner
	history RunHistory
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listFunding returns one page of funding records.
func (h *handler) listFunding(c *gin.Context) {
	q := parseQuery(c)

	result, err := h.queries.Search(c.Request.Context(), q)
	if err != nil {
		h.log.Error("funding search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// listRounds returns the distinct round labels for filter dropdowns.
func (h *handler) listRounds(c *gin.Context) {
	rounds, err := h.queries.DistinctRounds(c.Request.Context())
	if err != nil {
		h.log.Error("rounds aggregation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rounds lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

// stats returns aggregate totals over all stored records.
func (h *handler) stats(c *gin.Context) {
	stats, err := h.queries.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("stats aggregation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats lookup failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// triggerIngest runs one ingestion pass synchronously and returns its summary.
func (h *handler) triggerIngest(c *gin.Context) {
	summary, err := h.runner.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("ingestion run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "ingestion failed",
			"summary": summary,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// listRuns returns recent ingestion runs, newest first. Without run history
// configured it returns an empty list.
func (h *handler) listRuns(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []domain.IngestionRun{}})
		return
	}

	runs, err := h.history.Recent(c.Request.Context(), defaultRunsLimit)
	if err != nil {
		h.log.Error("run history lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "run history lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// parseQuery reads pagination, sorting and filter parameters, clamping them
// to sane bounds.
func parseQuery(c *gin.Context) domain.Query {
	q := domain.Query{
		Page:          intQuery(c, "page", 1),
		ItemsPerPage:  intQuery(c, "itemsPerPage", domain.DefaultPageSize),
		SortField:     c.DefaultQuery("sortField", "date"),
		SortDirection: c.DefaultQuery("sortDirection", "desc"),
		Search:        c.Query("search"),
		FilterRound:   c.Query("filterRound"),
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.ItemsPerPage < 1 {
		q.ItemsPerPage = domain.DefaultPageSize
	}
	if q.ItemsPerPage > domain.MaxPageSize {
		q.ItemsPerPage = domain.MaxPageSize
	}
	if q.SortDirection != "asc" {
		q.SortDirection = "desc"
	}

	return q
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
