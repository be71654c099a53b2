package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/consulta-api/internal/services"
)

type QueryHandler struct {
	querySvc  *services.QueryService
	exportSvc *services.ExportService
}

func NewQueryHandler(querySvc *services.QueryService, exportSvc *services.ExportService) *QueryHandler {
	return &QueryHandler{
		querySvc:  querySvc,
		exportSvc: exportSvc,
	}
}

// QueryRequest is the question sent by the front-end
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// @Summary Ask a question
// @Description Forwards a free-text question to the analytics backend and returns the projected table
// @Tags Query
// @Accept json
// @Produce json
// @Param domain path string false "Domain (consommation, reception)"
// @Param request body QueryRequest true "Question"
// @Success 200 {object} services.QueryResult
// @Router /query/{domain} [post]
func (h *QueryHandler) Ask(c *gin.Context) {
	result, ok := h.ask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Export a query result
// @Description Asks the question and downloads the projected table
// @Tags Query
// @Accept json
// @Produce application/octet-stream
// @Param domain path string false "Domain (consommation, reception)"
// @Param format query string true "File format (csv, xlsx, pdf)"
// @Param request body QueryRequest true "Question"
// @Router /exports/{domain} [post]
func (h *QueryHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", services.FormatXLSX))
	switch format {
	case services.FormatCSV, services.FormatXLSX, services.FormatPDF:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format invalide (csv, xlsx, pdf)"})
		return
	}

	result, ok := h.ask(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.Export(c.Request.Context(), format, result.Table)
	if err != nil {
		if errors.Is(err, services.ErrNoTable) {
			msg := result.Error
			if msg == "" {
				msg = "Aucun tableau à exporter pour cette question"
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "result": result})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Échec de la génération du %s: %v", format, err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (h *QueryHandler) ask(c *gin.Context) (*services.QueryResult, bool) {
	domain, err := services.ParseDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Domaine inconnu (consommation, reception)"})
		return nil, false
	}

	var req QueryRequest
	if err := BindNestedOrFlat(c, "query", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La question est obligatoire"})
		return nil, false
	}

	result, err := h.querySvc.Ask(c.Request.Context(), domain, req.Question)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La question est obligatoire"})
			return nil, false
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return result, true
}
