package webapp

import (
	"encoding/json"
	"runtime"
	"strings"
	"time"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// DefaultAddressConstant is the listen address of the fixture server.
	DefaultAddressConstant = "0.0.0.0:3000"
	// DefaultPublicDirectoryConstant holds static assets relative to the working directory.
	DefaultPublicDirectoryConstant = "public"

	applicationNameConstant        = "Test Web App"
	applicationVersionConstant     = "1.0.0"
	statusOKConstant               = "ok"
	apiGroupPathConstant           = "/api"
	statusRoutePathConstant        = "/status"
	infoRoutePathConstant          = "/info"
	echoRoutePathConstant          = "/echo"
	staticRootPathConstant         = "/"
	jsonContentTypeConstant        = "json"
	invalidBodyMessageConstant     = "request body is not valid JSON"
	primitiveBodyMessageConstant   = "request body must be a JSON object or array"
	logFieldMethodConstant         = "method"
	logFieldURLConstant            = "url"
	logFieldStatusConstant         = "status"
	logFieldLatencyConstant        = "latency"
	emptyJSONObjectLiteralConstant = "{}"
	timestampLayoutConstant        = "2006-01-02T15:04:05.000Z07:00"
)

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// InfoResponse is returned by GET /api/info.
type InfoResponse struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Runtime string  `json:"runtime"`
	Uptime  float64 `json:"uptime"`
}

// EchoResponse is returned by POST /api/echo.
type EchoResponse struct {
	Received json.RawMessage `json:"received"`
}

// Clock reports the current time.
type Clock func() time.Time

// Options configures the fixture application.
type Options struct {
	// PublicDirectory is served at the root; empty disables static files.
	PublicDirectory string
	Logger          *zap.Logger
	Clock           Clock
}

// Handler implements the JSON routes.
type Handler struct {
	startedAt time.Time
	clock     Clock
}

// NewHandler captures the start time used for uptime reporting.
func NewHandler(clock Clock) *Handler {
	if clock == nil {
		clock = time.Now
	}
	return &Handler{startedAt: clock(), clock: clock}
}

// Register mounts the JSON routes on router.
func (handler *Handler) Register(router fiber.Router) {
	api := router.Group(apiGroupPathConstant)
	api.Get(statusRoutePathConstant, handler.status)
	api.Get(infoRoutePathConstant, handler.info)
	api.Post(echoRoutePathConstant, handler.echo)
}

func (handler *Handler) status(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: statusOKConstant, Timestamp: handler.clock().UTC().Format(timestampLayoutConstant)})
}

func (handler *Handler) info(c *fiber.Ctx) error {
	return c.JSON(InfoResponse{
		Name:    applicationNameConstant,
		Version: applicationVersionConstant,
		Runtime: runtime.Version(),
		Uptime:  handler.clock().Sub(handler.startedAt).Seconds(),
	})
}

// echo mirrors a JSON object or array body. Bodies without a JSON content type
// echo an empty object; top-level primitives are rejected.
func (handler *Handler) echo(c *fiber.Ctx) error {
	received := json.RawMessage(emptyJSONObjectLiteralConstant)
	body := c.Body()
	trimmedBody := strings.TrimSpace(string(body))
	if c.Is(jsonContentTypeConstant) && len(trimmedBody) > 0 {
		if !json.Valid(body) {
			return fiber.NewError(fiber.StatusBadRequest, invalidBodyMessageConstant)
		}
		if trimmedBody[0] != '{' && trimmedBody[0] != '[' {
			return fiber.NewError(fiber.StatusBadRequest, primitiveBodyMessageConstant)
		}
		received = append(json.RawMessage(nil), body...)
	}
	return c.JSON(EchoResponse{Received: received})
}

// NewApp builds the fiber application with logging, JSON routes and static files.
func NewApp(options Options) *fiber.App {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestLogger(logger))
	NewHandler(options.Clock).Register(app)

	if publicDirectory := strings.TrimSpace(options.PublicDirectory); len(publicDirectory) > 0 {
		app.Static(staticRootPathConstant, publicDirectory)
	}
	return app
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return fiberzap.New(fiberzap.Config{
		Logger: logger,
		Fields: []string{logFieldStatusConstant, logFieldMethodConstant, logFieldURLConstant, logFieldLatencyConstant},
	})
}
