package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	statsService "anoa.com/playstats/internal/modules/stats/service"
	"anoa.com/playstats/pkg/response"
	"github.com/gin-gonic/gin"
)

const DefaultCacheControl = "public, max-age=60"

type StatsHandler struct {
	provider     statsService.Provider
	cacheControl string
}

func NewStatsHandler(provider statsService.Provider, cacheControl string) *StatsHandler {
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}
	return &StatsHandler{
		provider:     provider,
		cacheControl: cacheControl,
	}
}

// GetStats answers every request with the stats document. Method, path,
// headers and body are ignored.
func (h *StatsHandler) GetStats(c *gin.Context) {
	doc, err := h.provider.GetStats(c.Request.Context())
	if err != nil {
		c.Header("Cache-Control", "no-store")
		response.ResponseError(c, err)
		return
	}

	body, err := EncodeDocument(doc)
	if err != nil {
		c.Header("Cache-Control", "no-store")
		response.ResponseError(c, err)
		return
	}

	c.Header("Cache-Control", h.cacheControl)
	c.Data(http.StatusOK, "application/json", body)
}

// EncodeDocument renders compact JSON without HTML escaping so URLs keep
// their literal '&'.
func EncodeDocument(doc *statsDto.StatsDocument) ([]byte, error) {
	if doc.TopUsers == nil {
		doc = doc.Clone()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
