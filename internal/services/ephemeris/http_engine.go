package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AstroCore/internal/domain/models"
	domsvc "AstroCore/internal/domain/service"
	xhttp "AstroCore/pkg/http"
	"AstroCore/pkg/util"
)

// Error codes understood in engine error bodies.
const (
	codeUnknownBody       = "UNKNOWN_BODY"
	codeOutOfRange        = "OUT_OF_RANGE"
	codeInvalidLatitude   = "INVALID_LATITUDE"
	codeUnsupportedSystem = "UNSUPPORTED_HOUSE_SYSTEM"
)

// HTTPEngine talks JSON to a remote ephemeris service. It holds no per-call
// state and is safe for concurrent use.
type HTTPEngine struct {
	base     *HTTPServiceBase
	attempts int
}

func NewHTTPEngine(baseURL string, timeout time.Duration, retries int, opts ...xhttp.ClientOption) *HTTPEngine {
	return &HTTPEngine{base: NewHTTPServiceBase(baseURL, timeout, opts...), attempts: retries + 1}
}

func (e *HTTPEngine) Name() string { return "http" }

type positionReq struct {
	Body string  `json:"body"`
	JD   float64 `json:"jd"`
}

type positionResp struct {
	Longitude float64 `json:"longitude"`
}

func (e *HTTPEngine) Longitude(ctx context.Context, body models.Body, at time.Time) (models.Degree, error) {
	var resp positionResp
	req := positionReq{Body: body.BodyID(), JD: util.JulianDay(at)}
	if err := e.base.PostJSONWithRetry(ctx, "/position", req, &resp, e.attempts); err != nil {
		return models.Degree{}, mapEngineError(err)
	}
	return models.NewDegree(resp.Longitude), nil
}

type housesReq struct {
	JD        float64 `json:"jd"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	System    string  `json:"system"`
}

type housesResp struct {
	Ascendent float64   `json:"ascendent"`
	MidHeaven float64   `json:"mid_heaven"`
	Cusps     []float64 `json:"cusps"`
}

func (e *HTTPEngine) Houses(ctx context.Context, jd, latitude, longitude float64, system models.HouseSystem, buf *models.HouseBuffers) error {
	var resp housesResp
	req := housesReq{JD: jd, Latitude: latitude, Longitude: longitude, System: string(system.Code())}
	if err := e.base.PostJSONWithRetry(ctx, "/houses", req, &resp, e.attempts); err != nil {
		return mapEngineError(err)
	}
	if len(resp.Cusps) != 12 {
		return fmt.Errorf("%w: expected 12 cusps, got %d", models.ErrEngineInternal, len(resp.Cusps))
	}
	buf.ASCMC[0] = resp.Ascendent
	buf.ASCMC[1] = resp.MidHeaven
	copy(buf.Cusps[1:], resp.Cusps)
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mapEngineError converts a failed call into the engine error taxonomy.
// Anything unrecognized, transport failures included, is ErrEngineInternal.
func mapEngineError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrEngineInternal, err)
	}
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %w", models.ErrEngineInternal, err)
	}
	var body errorBody
	_ = json.Unmarshal(se.Body, &body)

	var sentinel error
	switch body.Code {
	case codeUnknownBody:
		sentinel = models.ErrUnknownBody
	case codeOutOfRange:
		sentinel = models.ErrOutOfEphemerisRange
	case codeInvalidLatitude:
		sentinel = models.ErrInvalidLatitude
	case codeUnsupportedSystem:
		sentinel = models.ErrUnsupportedHouseSystem
	default:
		sentinel = models.ErrEngineInternal
	}
	if body.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, body.Message)
	}
	return fmt.Errorf("%w: status %d", sentinel, se.StatusCode)
}

var _ domsvc.Engine = (*HTTPEngine)(nil)
