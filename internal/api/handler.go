// Package api exposes the importer over HTTP
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sjsage522/pharmaimport/internal/importer"
	"sjsage522/pharmaimport/logger"
	importerrors "sjsage522/pharmaimport/pkg/errors"
)

// Importer is the set of import operations the handlers call
type Importer interface {
	ImportProducts(ctx context.Context, req importer.ImportRequest) (*importer.ImportResult, error)
	ImportGeneric(ctx context.Context, req importer.ImportRequest) (*importer.ImportResult, error)
	ImportBrands(ctx context.Context, req importer.ImportRequest) (*importer.ImportResult, error)
}

// Blocklist clears partner hosts blocked after a rate-limit response
type Blocklist interface {
	Unblock(host string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	importer  Importer
	blocklist Blocklist
	log       *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(imp Importer) *Handler {
	return &Handler{importer: imp, log: logger.ForHTTP()}
}

// WithBlocklist enables clearing partner blocks over HTTP
func (h *Handler) WithBlocklist(b Blocklist) *Handler {
	h.blocklist = b
	return h
}

// importBody is the JSON body shared by the import endpoints
type importBody struct {
	URL            string `json:"url"`
	MaxProducts    *int   `json:"maxProducts"`
	DeleteExisting bool   `json:"deleteExisting"`
}

// request converts the body; withMax is false for brand imports, which are
// capped by the configured limit only
func (b importBody) request(withMax bool) importer.ImportRequest {
	req := importer.ImportRequest{URL: b.URL, DeleteExisting: b.DeleteExisting}
	if withMax && b.MaxProducts != nil {
		// an explicit value is clamped, only an absent one means default
		req.MaxRecords = max(*b.MaxProducts, 1)
	}
	return req
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pharmaimport",
	})
}

// ImportBrands handles POST /api/admin/import-brands
func (h *Handler) ImportBrands(c *gin.Context) {
	h.run(c, "import-brands", false, h.importer.ImportBrands)
}

// ImportFromURL handles POST /api/admin/import-from-url using the
// strategies of the partner detected from the URL
func (h *Handler) ImportFromURL(c *gin.Context) {
	h.run(c, "import-from-url", true, h.importer.ImportProducts)
}

// ImportProducts handles POST /api/admin/import-products using the generic
// extraction cascade
func (h *Handler) ImportProducts(c *gin.Context) {
	h.run(c, "import-products", true, h.importer.ImportGeneric)
}

type importFunc func(ctx context.Context, req importer.ImportRequest) (*importer.ImportResult, error)

func (h *Handler) run(c *gin.Context, endpoint string, withMax bool, fn importFunc) {
	var body importBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}

	result, err := fn(c.Request.Context(), body.request(withMax))
	if err != nil {
		status := statusFor(err)
		h.log.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("url", body.URL).
			Int("status", status).
			Msg("Import request failed")
		c.JSON(status, gin.H{"success": false, "error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnblockPartner handles DELETE /api/admin/partner-blocks/:host so an
// operator can lift a rate-limit block before it expires
func (h *Handler) UnblockPartner(c *gin.Context) {
	if h.blocklist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "partner block cache is not configured"})
		return
	}

	host := strings.TrimSpace(c.Param("host"))
	if host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "host is required"})
		return
	}

	if err := h.blocklist.Unblock(host); err != nil {
		h.log.Error().Err(err).Str("host", host).Msg("Failed to unblock partner")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.log.Info().Str("host", host).Msg("Partner unblocked")
	c.JSON(http.StatusOK, gin.H{"success": true, "host": host})
}

// statusFor maps an import failure to an HTTP status code
func statusFor(err error) int {
	switch importerrors.TypeOf(err) {
	case importerrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case importerrors.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case importerrors.ErrorTypeNetwork, importerrors.ErrorTypeParsing:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var ie *importerrors.ImportError
	if !errors.As(err, &ie) {
		return err.Error()
	}
	if ie.Err != nil && ie.Type != importerrors.ErrorTypeStore {
		return ie.Message + ": " + ie.Err.Error()
	}
	return ie.Message
}
