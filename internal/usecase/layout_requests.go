package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
	pkgkafka "AstroCore/pkg/kafka"
	"AstroCore/pkg/util"
)

// LayoutRequestHandler consumes layout requests from Kafka and runs them
// through HouseService. Errors are returned so the consumer retries and
// dead-letters the message.
type LayoutRequestHandler struct {
	topic  string
	houses *HouseService
}

func NewLayoutRequestHandler(topic string, houses *HouseService) *LayoutRequestHandler {
	return &LayoutRequestHandler{topic: topic, houses: houses}
}

func (h *LayoutRequestHandler) Topic() string { return h.topic }

// incoming message schema: {date, latitude, longitude, system}
func (h *LayoutRequestHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Date      string  `json:"date"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		System    string  `json:"system"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("decode layout request: %w", err)
	}
	date, ok := util.ParseTime(m.Date)
	if !ok {
		return fmt.Errorf("decode layout request: bad date %q", m.Date)
	}
	system, err := domrepo.NormalizeHouseSystem(m.System)
	if err != nil {
		return err
	}
	_, err = h.houses.Compute(ctx, models.LayoutRequest{
		Date:      date,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		System:    system,
	})
	return err
}

var _ pkgkafka.MessageHandler = (*LayoutRequestHandler)(nil)
