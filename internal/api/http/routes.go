package httpapi

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/invopop/jsonschema"

	"github.com/i474232898/forecast-cards/internal/app"
	"github.com/i474232898/forecast-cards/internal/forecast"
	"github.com/i474232898/forecast-cards/internal/view"
)

var validate = validator.New()

// Board is the read side of the card view.
type Board interface {
	Snapshot() view.Board
	Card(key string) (view.Card, error)
	Notifications() []view.Notification
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(fa *fiber.App, application *app.App, board Board) {
	v1 := fa.Group("/api/v1")

	v1.Get("/cards", func(c *fiber.Ctx) error {
		return c.JSON(board.Snapshot())
	})

	v1.Get("/cards/:key", func(c *fiber.Ctx) error {
		key, err := keyParam(c)
		if err != nil {
			return err
		}
		card, err := board.Card(key)
		if err != nil {
			if errors.Is(err, view.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no card for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read card")
		}
		return c.JSON(card)
	})

	v1.Get("/locations", func(c *fiber.Ctx) error {
		locs, err := application.Locations(c.UserContext())
		if err != nil {
			log.Printf("ERROR: failed to load locations: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load locations")
		}
		return c.JSON(fiber.Map{"locations": locs})
	})

	v1.Post("/locations", func(c *fiber.Ctx) error {
		var req addLocationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.toLocation()
		if _, err := application.AddLocation(c.UserContext(), loc); err != nil {
			return fetchError(err)
		}

		card, err := board.Card(loc.Key)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "card missing after add")
		}
		return c.Status(fiber.StatusCreated).JSON(card)
	})

	v1.Delete("/locations/:key", func(c *fiber.Ctx) error {
		key, err := keyParam(c)
		if err != nil {
			return err
		}
		if err := application.RemoveLocation(c.UserContext(), key); err != nil {
			if errors.Is(err, view.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no card for requested location")
			}
			log.Printf("ERROR: failed to remove location: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove location")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		// Detached from the request; cards update as responses arrive.
		tasks := application.RefreshAll(context.Background())
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"refreshing": len(tasks)})
	})

	v1.Get("/notifications", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"notifications": board.Notifications()})
	})

	cardSchema := jsonschema.Reflect(&view.Card{})
	v1.Get("/schema/card", func(c *fiber.Ctx) error {
		return c.JSON(cardSchema)
	})
}

// addLocationRequest is the body of POST /locations.
type addLocationRequest struct {
	Key   string `json:"key" validate:"required,max=200"`
	Label string `json:"label" validate:"max=200"`
}

func (r addLocationRequest) toLocation() forecast.Location {
	return forecast.Location{
		Key:   strings.TrimSpace(r.Key),
		Label: strings.TrimSpace(r.Label),
	}
}

// keyParam returns the unescaped :key segment. Free-text keys arrive
// percent-encoded ("New%20York").
func keyParam(c *fiber.Ctx) (string, error) {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid location key")
	}
	return key, nil
}

func fetchError(err error) error {
	switch {
	case errors.Is(err, app.ErrEmptyLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, forecast.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, forecast.ErrFetchFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
	}
}
