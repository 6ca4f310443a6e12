package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
	"AstroCore/internal/usecase"
	xhttp "AstroCore/pkg/http"
	xlogger "AstroCore/pkg/logger"
)

// HealthCheck is one dependency probed by /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type AstroHandlerConfig struct {
	DefaultOrb    float64
	DefaultSystem models.HouseSystem
	Checks        []HealthCheck
	Logger        *xlogger.Logger
}

// AstroHandler serves the aspect and house endpoints.
type AstroHandler struct {
	logger        *xlogger.Logger
	aspects       *usecase.AspectService
	houses        *usecase.HouseService
	defaultOrb    float64
	defaultSystem models.HouseSystem
	checks        []HealthCheck
	now           func() time.Time
}

func NewAstroHandler(aspects *usecase.AspectService, houses *usecase.HouseService, cfg AstroHandlerConfig) *AstroHandler {
	l := cfg.Logger
	if l == nil {
		l = xlogger.Nop()
	}
	sys := cfg.DefaultSystem
	if sys == "" {
		sys = domrepo.DefaultHouseSystem()
	}
	return &AstroHandler{
		logger:        l.With(xlogger.String("component", "api")),
		aspects:       aspects,
		houses:        houses,
		defaultOrb:    cfg.DefaultOrb,
		defaultSystem: sys,
		checks:        cfg.Checks,
		now:           time.Now,
	}
}

func (h *AstroHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/aspects/classify", h.Classify)
	g.GET("/aspects/bodies", h.BodiesAspect)
	g.POST("/aspects/scan", h.Scan)
	g.GET("/houses", h.Houses)
	g.GET("/houses/history", h.History)
}

type classifyResponse struct {
	A      models.Degree  `json:"a"`
	B      models.Degree  `json:"b"`
	Orb    float64        `json:"orb"`
	Found  bool           `json:"found"`
	Aspect *models.Aspect `json:"aspect,omitempty"`
}

type bodiesAspectResponse struct {
	A      string         `json:"a"`
	B      string         `json:"b"`
	Date   time.Time      `json:"date"`
	Orb    float64        `json:"orb"`
	Found  bool           `json:"found"`
	Aspect *models.Aspect `json:"aspect,omitempty"`
}

type scanResponse struct {
	Date    time.Time            `json:"date"`
	Orb     float64              `json:"orb"`
	Aspects []models.AspectEvent `json:"aspects"`
}

func (h *AstroHandler) Classify(c echo.Context) error {
	req := &models.ClassifyRequest{Orb: h.defaultOrb}
	err := echo.QueryParamsBinder(c).
		MustFloat64("a", &req.A).
		MustFloat64("b", &req.B).
		Float64("orb", &req.Orb).
		BindError()
	if err != nil {
		return xhttp.BadRequestResponse(c, xhttp.RequestErrors(err))
	}
	if verr := xhttp.ValidateRequest(c.Request().Context(), req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	asp, ok, err := h.aspects.ClassifyLongitudes(req.A, req.B, req.Orb)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	res := classifyResponse{A: models.NewDegree(req.A), B: models.NewDegree(req.B), Orb: req.Orb, Found: ok}
	if ok {
		res.Aspect = &asp
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AstroHandler) BodiesAspect(c echo.Context) error {
	req := &models.BodiesAspectRequest{Orb: h.defaultOrb}
	err := echo.QueryParamsBinder(c).
		String("a", &req.A).
		String("b", &req.B).
		String("date", &req.Date).
		Float64("orb", &req.Orb).
		BindError()
	if err != nil {
		return xhttp.BadRequestResponse(c, xhttp.RequestErrors(err))
	}
	if verr := xhttp.ValidateRequest(c.Request().Context(), req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := xhttp.ParseTimeParam("date", req.Date, h.now().UTC())
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	a, err := models.ParseBody(req.A)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err).WithParam("field", "a"))
	}
	b, err := models.ParseBody(req.B)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err).WithParam("field", "b"))
	}

	asp, ok, err := h.aspects.ClassifyBodies(c.Request().Context(), models.NewPair(a, b), date, req.Orb)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	res := bodiesAspectResponse{A: a.BodyID(), B: b.BodyID(), Date: date, Orb: req.Orb, Found: ok}
	if ok {
		res.Aspect = &asp
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AstroHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	orb := h.defaultOrb
	if req.Orb != nil {
		orb = *req.Orb
	}
	date, err := xhttp.ParseTimeParam("date", req.Date, h.now().UTC())
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	bodies := make([]models.Body, 0, len(req.Bodies))
	for _, id := range req.Bodies {
		b, err := models.ParseBody(id)
		if err != nil {
			return xhttp.AppErrorResponse(c, toAppError(err))
		}
		bodies = append(bodies, b)
	}

	found, err := h.aspects.Scan(c.Request().Context(), bodies, date, orb)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, scanResponse{Date: date, Orb: orb, Aspects: found})
}

func (h *AstroHandler) Houses(c echo.Context) error {
	req := &models.HousesRequest{System: string(h.defaultSystem)}
	err := echo.QueryParamsBinder(c).
		String("date", &req.Date).
		MustFloat64("lat", &req.Lat).
		MustFloat64("lon", &req.Lon).
		String("system", &req.System).
		BindError()
	if err != nil {
		return xhttp.BadRequestResponse(c, xhttp.RequestErrors(err))
	}
	if verr := xhttp.ValidateRequest(c.Request().Context(), req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := xhttp.ParseTimeParam("date", req.Date, h.now().UTC())
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	system, err := domrepo.NormalizeHouseSystem(req.System)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	r := models.LayoutRequest{Date: date, Latitude: req.Lat, Longitude: req.Lon, System: system}
	layout, err := h.houses.Compute(c.Request().Context(), r)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, models.LayoutEvent{Layout: layout, Latitude: r.Latitude, Longitude: r.Longitude, System: system})
}

func (h *AstroHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{System: string(h.defaultSystem)}
	err := echo.QueryParamsBinder(c).
		MustFloat64("lat", &req.Lat).
		MustFloat64("lon", &req.Lon).
		String("system", &req.System).
		String("from", &req.From).
		String("to", &req.To).
		Int("limit", &req.Limit).
		BindError()
	if err != nil {
		return xhttp.BadRequestResponse(c, xhttp.RequestErrors(err))
	}
	if verr := xhttp.ValidateRequest(c.Request().Context(), req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, err := xhttp.ParseTimeParam("from", req.From, time.Time{})
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	to, err := xhttp.ParseTimeParam("to", req.To, time.Time{})
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	system, err := domrepo.NormalizeHouseSystem(req.System)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	rows, err := h.houses.History(c.Request().Context(), models.HistoryQuery{
		Latitude:  req.Lat,
		Longitude: req.Lon,
		System:    system,
		From:      from,
		To:        to,
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("layout history failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Health probes every configured dependency. Any failure turns the response
// into a 503.
func (h *AstroHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			healthy = false
			status[chk.Name] = err.Error()
			h.logger.Warn("health check failed", xlogger.String("check", chk.Name), xlogger.Error(err))
			continue
		}
		status[chk.Name] = "ok"
	}
	if !healthy {
		return xhttp.ServiceUnavailableResponse(c, status)
	}
	return xhttp.SuccessResponse(c, status)
}

// toAppError maps the engine and service taxonomy onto HTTP errors.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, models.ErrUnknownBody):
		return xhttp.NotFoundError("ERR_UNKNOWN_BODY", err.Error())
	case errors.Is(err, models.ErrOutOfEphemerisRange):
		return xhttp.UnprocessableError("ERR_OUT_OF_RANGE", err.Error())
	case errors.Is(err, models.ErrInvalidLatitude):
		return xhttp.NewAppError("ERR_INVALID_LATITUDE", "lat", err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrUnsupportedHouseSystem):
		return xhttp.UnprocessableError("ERR_UNSUPPORTED_HOUSE_SYSTEM", err.Error())
	case errors.Is(err, models.ErrInvalidOrb):
		return xhttp.NewAppError("ERR_INVALID_ORB", "orb", err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("engine did not answer in time").WithError(err)
	case errors.Is(err, models.ErrEngineInternal):
		return xhttp.BadGatewayError(err.Error())
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
