package controller

import (
	"github.com/gofiber/fiber/v2"

	"siamestates_backend/pkg/rates"
	"siamestates_backend/pkg/utils/location"
)

// GetProvinces lists the Thai provinces available for listings.
func GetProvinces(c *fiber.Ctx) error {
	return c.JSON(location.GetProvinces())
}

// GetProvinceDistricts lists the districts of one province.
func GetProvinceDistricts(c *fiber.Ctx) error {
	province := c.Params("province")

	districts := location.GetDistricts(province)
	if districts == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown province",
		})
	}

	return c.JSON(fiber.Map{
		"province":  province,
		"districts": districts,
	})
}

// GetExchangeRates returns the cached THB rate table.
func GetExchangeRates(c *fiber.Ctx) error {
	table, fetchedAt := rates.GlobalCache.Snapshot()
	if len(table) == 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Exchange rates not available",
		})
	}

	return c.JSON(fiber.Map{
		"base":       "THB",
		"rates":      table,
		"fetched_at": fetchedAt,
	})
}
