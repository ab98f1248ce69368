package api

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/cache"
	"github.com/cargoroute/cargoroute_core/internal/history"
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/planner"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Server bundles the planner with its optional cache and persistence
// layers. Cache and store may be nil; the handlers degrade gracefully.
type Server struct {
	planner  *planner.Planner
	cache    *cache.PlanCache
	store    *history.Store
	validate *validator.Validate
}

// NewServer wires the HTTP handlers
func NewServer(p *planner.Planner, c *cache.PlanCache, s *history.Store) *Server {
	return &Server{
		planner:  p,
		cache:    c,
		store:    s,
		validate: validator.New(),
	}
}

// RegisterRoutes attaches the API surface to a fiber app
func (s *Server) RegisterRoutes(app *fiber.App) {
	app.Get("/health", s.Health)
	app.Post("/v1/route-plan", s.RoutePlan)
	app.Get("/v1/plans", s.RecentPlans)
}

// PlanRequest is the /v1/route-plan request body
type PlanRequest struct {
	Source        string  `json:"source" validate:"required"`
	Destination   string  `json:"destination" validate:"required,nefield=Source"`
	CargoWeightKg float64 `json:"cargo_weight_kg" validate:"required,gt=0"`
	GoodsType     int     `json:"goods_type" validate:"omitempty,min=1,max=6"`
	Priority      string  `json:"priority" validate:"omitempty,oneof=cost time eco balanced"`
}

// RoutePlan handles the /v1/route-plan endpoint
func (s *Server) RoutePlan(c *fiber.Ctx) error {
	var body PlanRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("invalid request body: %v", err),
		})
	}

	if err := s.validate.Struct(body); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("validation failed: %v", err),
		})
	}

	req := planner.Request{
		Source:        body.Source,
		Destination:   body.Destination,
		CargoWeightKg: body.CargoWeightKg,
		GoodsType:     models.ParseGoodsType(body.GoodsType),
		Priority:      models.ParsePriority(body.Priority),
	}

	plan, err := s.computePlan(c.Context(), req)
	if err != nil {
		log.Printf("Plan computation failed for %s -> %s: %v", req.Source, req.Destination, err)
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if s.store != nil {
		if _, err := s.store.Save(c.Context(), plan); err != nil {
			log.Printf("Warning: could not persist plan: %v", err)
		}
	}

	return c.JSON(plan)
}

// computePlan runs the planner behind the cache. Concurrent identical
// requests dedupe through the cache's compute mutex.
func (s *Server) computePlan(ctx context.Context, req planner.Request) (*planner.Plan, error) {
	if s.cache == nil {
		return s.planner.Plan(ctx, req)
	}

	key := cache.PlanKey(req)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	acquired, err := s.cache.AcquireLock(ctx, key)
	if err != nil {
		log.Printf("Failed to acquire plan lock: %v", err)
	} else if !acquired {
		if cached, err := s.cache.WaitForPlan(ctx, key, 30*time.Second); err == nil && cached != nil {
			return cached, nil
		}
		// Waiting failed, compute anyway
	}

	defer func() {
		if acquired {
			s.cache.ReleaseLock(ctx, key)
		}
	}()

	plan, err := s.planner.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, plan); err != nil {
		log.Printf("Failed to cache plan: %v", err)
	}

	return plan, nil
}

// RecentPlans handles the /v1/plans endpoint
func (s *Server) RecentPlans(c *fiber.Ctx) error {
	if s.store == nil {
		return c.Status(503).JSON(fiber.Map{
			"error": "plan history is not configured",
		})
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 200 {
			return c.Status(400).JSON(fiber.Map{
				"error": "invalid limit (must be between 1 and 200)",
			})
		}
		limit = parsed
	}

	records, err := s.store.Recent(c.Context(), limit)
	if err != nil {
		log.Printf("Query error: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if records == nil {
		records = []history.Record{}
	}

	return c.JSON(fiber.Map{
		"plans": records,
		"total": len(records),
	})
}

// Health handles the /health endpoint
func (s *Server) Health(c *fiber.Ctx) error {
	ctx := c.Context()

	checks := fiber.Map{}
	healthy := true

	if s.store != nil {
		if err := s.store.HealthCheck(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
	}

	if s.cache != nil {
		if err := s.cache.HealthCheck(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := "healthy"
	httpStatus := 200
	if !healthy {
		status = "unhealthy"
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
