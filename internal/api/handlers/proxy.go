package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prajwal-kadam12/reqgen/internal/services"
	"go.uber.org/zap"
)

// proxyEndpoints maps the proxy path segment to the upstream path and the
// request shape it forwards. Anything else is a 404.
var proxyEndpoints = map[string]struct {
	upstream  string
	multipart bool
}{
	"summarize":         {upstream: "/api/summarize"},
	"generate-document": {upstream: "/api/generate-document"},
	"transcribe":        {upstream: "/api/transcribe", multipart: true},
	"process-audio":     {upstream: "/api/process-audio", multipart: true},
	"process-meeting":   {upstream: "/api/process-meeting", multipart: true},
	"test-upload":       {upstream: "/api/test-upload", multipart: true},
}

type ProxyHandler struct {
	proxy  *services.PythonProxy
	logger *zap.Logger
}

func NewProxyHandler(proxy *services.PythonProxy, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		proxy:  proxy,
		logger: logger.With(zap.String("handler", "proxy")),
	}
}

// Forward tunnels the request to the python inference service and relays
// the upstream status and JSON body. A body that fails to parse as JSON is
// surfaced as a 500 carrying the raw text.
func (h *ProxyHandler) Forward(c *gin.Context) {
	endpoint, known := proxyEndpoints[c.Param("endpoint")]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown endpoint"})
		return
	}

	var result *services.ProxyResult
	var err error
	if endpoint.multipart {
		result, err = h.forwardMultipart(c, endpoint.upstream)
	} else {
		result, err = h.forwardJSON(c, endpoint.upstream)
	}
	if err != nil {
		h.logger.Error("Proxy forward failed",
			zap.String("endpoint", endpoint.upstream),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		// forwardMultipart already wrote the 400.
		return
	}

	if !result.IsJSON() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Invalid response from python backend",
			"details": result.Raw,
		})
		return
	}
	c.JSON(result.StatusCode, result.JSON)
}

func (h *ProxyHandler) forwardJSON(c *gin.Context, upstream string) (*services.ProxyResult, error) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]any{}
	}
	return h.proxy.ForwardJSON(c.Request.Context(), upstream, body)
}

func (h *ProxyHandler) forwardMultipart(c *gin.Context, upstream string) (*services.ProxyResult, error) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Extra form fields (strategy, quality, custom_instruction, ...) ride
	// along untouched.
	fields := make(map[string]string)
	if c.Request.MultipartForm != nil {
		for key, values := range c.Request.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}

	return h.proxy.ForwardMultipart(c.Request.Context(), upstream, "audio", fileHeader.Filename, file, fields)
}
