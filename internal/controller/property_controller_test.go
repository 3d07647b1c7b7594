package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siamestates_backend/pkg/utils/jwt"
)

func expectWithdrawnListing(mock sqlmock.Sqlmock) {
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "status", "agent_id"}).
			AddRow(5, "Quiet Townhouse", "quiet-townhouse", "Withdrawn", 9))
	mock.ExpectQuery(`SELECT (.+) FROM "property_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestGetPropertyBySlugHidesWithdrawnFromPublic(t *testing.T) {
	mock := newTestDB(t)
	expectWithdrawnListing(mock)

	app := fiber.New()
	app.Get("/api/properties/:property_slug", GetPropertyBySlug)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/properties/quiet-townhouse", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPropertyBySlugShowsWithdrawnToStaff(t *testing.T) {
	mock := newTestDB(t)
	expectWithdrawnListing(mock)

	app := fiber.New()
	app.Get("/api/properties/:property_slug", func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Claims{UserID: 9, Role: "agent"})
		return c.Next()
	}, GetPropertyBySlug)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/properties/quiet-townhouse", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}
