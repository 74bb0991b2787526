package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Upstream describes one proxied provider API. The server-side key is
// injected on every forwarded request so clients never hold it.
type Upstream struct {
	BaseURL string
	APIKey  string
	Limiter *rate.Limiter
	Client  *http.Client
}

// ProxyConfig holds the configured upstreams.
type ProxyConfig struct {
	ElevenLabs *Upstream
	OpenAI     *Upstream
}

// NewUpstream builds an upstream with a token-bucket limiter. A zero
// ratePerSec disables limiting.
func NewUpstream(baseURL, apiKey string, ratePerSec float64, burst int, timeout time.Duration) *Upstream {
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Upstream{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Limiter: limiter,
		Client:  &http.Client{Timeout: timeout},
	}
}

// registerProxyRoutes wires the pass-through endpoints onto the group.
func registerProxyRoutes(g *echo.Group, cfg *ProxyConfig, logger *zap.Logger) {
	if cfg.ElevenLabs != nil {
		el := cfg.ElevenLabs
		g.GET("/elevenlabs/conversations", func(c echo.Context) error {
			return forward(c, el, "xi-api-key", "/v1/convai/conversations", logger)
		})
		g.GET("/elevenlabs/conversations/:id", func(c echo.Context) error {
			return forward(c, el, "xi-api-key", "/v1/convai/conversations/"+c.Param("id"), logger)
		})
	}
	if cfg.OpenAI != nil {
		oa := cfg.OpenAI
		g.POST("/openai/embeddings", func(c echo.Context) error {
			return forward(c, oa, "Authorization", "/v1/embeddings", logger)
		})
	}
}

// forward relays the request to the upstream, injecting the API key under
// keyHeader. Upstream status codes pass through; transport failures map
// to 502 and an exhausted limiter to 429.
func forward(c echo.Context, up *Upstream, keyHeader, path string, logger *zap.Logger) error {
	if up.Limiter != nil && !up.Limiter.Allow() {
		return echo.NewHTTPError(http.StatusTooManyRequests, "upstream rate limit exceeded")
	}

	in := c.Request()
	url := up.BaseURL + path
	if in.URL.RawQuery != "" {
		url += "?" + in.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(in.Context(), in.Method, url, in.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to build upstream request")
	}
	if ct := in.Header.Get(echo.HeaderContentType); ct != "" {
		req.Header.Set(echo.HeaderContentType, ct)
	}

	switch keyHeader {
	case "Authorization":
		req.Header.Set("Authorization", "Bearer "+up.APIKey)
	default:
		req.Header.Set(keyHeader, up.APIKey)
	}

	resp, err := up.Client.Do(req)
	if err != nil {
		logger.Warn("upstream request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusBadGateway, "upstream request failed")
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Stream(resp.StatusCode, contentType, io.LimitReader(resp.Body, maxProxyResponseSize))
}

// maxProxyResponseSize caps relayed bodies at 10MB.
const maxProxyResponseSize = 10 << 20
