package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns the evaluated feature flags for the current user.
// @Summary Evaluate feature flags
// @Tags feature-flags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{evaluated=map[string]bool}
// @Failure 401 {object} models.ErrorResponse
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(fiber.Map{"evaluated": map[string]bool{}})
	}
	return c.JSON(fiber.Map{
		"evaluated": s.featureFlags.Snapshot(currentUserID(c)),
	})
}
