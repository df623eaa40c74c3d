package routes

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/engine"
	"github.com/travigo/transitops/pkg/errs"
	"github.com/travigo/transitops/pkg/events"
	"github.com/travigo/transitops/pkg/networkgraph"
)

type Planner interface {
	ShortestPath(ctx context.Context, start string, end string, criteria networkgraph.Criteria) (networkgraph.PathResult, error)
}

// Invalidator is implemented by planners that hold results which go stale on a network reload.
type Invalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

type Store interface {
	Save(snapshot engine.Snapshot) error
	Catalogue(ctx context.Context) (ctdf.Catalogue, error)
}

// Services is everything the handlers need, shared by all routers.
type Services struct {
	Engine  *engine.Engine
	Planner Planner
	Events  events.Notifier
	Store   Store
}

var validate = validator.New()

// EnginePlanner answers plans straight from the engine without caching.
type EnginePlanner struct {
	Engine *engine.Engine
}

func (p EnginePlanner) ShortestPath(_ context.Context, start string, end string, criteria networkgraph.Criteria) (networkgraph.PathResult, error) {
	return p.Engine.ShortestPath(start, end, criteria)
}

func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return fiber.StatusNotFound
	case errs.KindInvalid:
		return fiber.StatusBadRequest
	case errs.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	c.SendStatus(statusFor(err))

	response := fiber.Map{
		"error": err.Error(),
	}

	var coreError *errs.Error
	if errors.As(err, &coreError) {
		response["kind"] = coreError.Kind
		if coreError.Reason != "" {
			response["reason"] = coreError.Reason
		}
	}

	return c.JSON(response)
}

func badRequest(c *fiber.Ctx, message string) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
		"kind":  errs.KindInvalid,
	})
}

// reduce renders value through sheriff, ?detailed=true adds the detailed group
func reduce(c *fiber.Ctx, value any) error {
	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, value)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce response",
		})
	}

	return c.JSON(reduced)
}

// persist writes the engine state after a mutation. A failed save is logged, the
// in-memory change stands and is written again on the next mutation.
func (s *Services) persist() {
	if s.Store == nil {
		return
	}

	if err := s.Store.Save(s.Engine.Snapshot()); err != nil {
		log.Error().Err(err).Msg("Failed to persist engine state")
	}
}

func (s *Services) publish(event events.Event) {
	if s.Events == nil {
		return
	}

	if err := s.Events.Publish(event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to publish event")
	}
}
