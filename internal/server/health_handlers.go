package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const apiVersion = "1.0.0"

func (s *Server) pingDatabase(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

// HealthCheck reports overall service health including the database.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	status := fiber.StatusOK
	if !s.pingDatabase(ctx) {
		dbStatus = "unhealthy"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    dbStatus,
		"version":   apiVersion,
		"timestamp": time.Now().UTC(),
		"checks": fiber.Map{
			"database": dbStatus,
		},
	})
}

// Liveness answers whether the process is up at all; it never touches
// the database.
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness answers whether the service can take traffic.
func (s *Server) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if !s.pingDatabase(ctx) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
