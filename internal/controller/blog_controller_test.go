package controller

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleBlogCalendarCheckFailure(t *testing.T) {
	mock := newTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "scheduled_blogs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow(3, "Draft Post", "draft"))

	// The conflict lookup failing is a server fault, not a bad request.
	mock.ExpectQuery(`SELECT (.+) FROM "scheduled_blogs"`).
		WillReturnError(errors.New("connection reset"))

	app := fiber.New()
	app.Post("/api/smart-blog/schedule", ScheduleBlog)

	publishAt := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"post_id":3,"publish_at":%q}`, publishAt)
	req := httptest.NewRequest("POST", "/api/smart-blog/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBlogRejectsPastDate(t *testing.T) {
	mock := newTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "scheduled_blogs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow(3, "Draft Post", "draft"))

	app := fiber.New()
	app.Post("/api/smart-blog/schedule", ScheduleBlog)

	publishAt := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"post_id":3,"publish_at":%q}`, publishAt)
	req := httptest.NewRequest("POST", "/api/smart-blog/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}
