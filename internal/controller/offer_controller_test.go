package controller

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"siamestates_backend/pkg/database"
)

// newTestDB swaps the global DB handle for a sqlmock-backed connection for
// the duration of one test.
func newTestDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		conn.Close()
	})

	return mock
}

func TestCreateOfferRejectsDuplicateBuyer(t *testing.T) {
	mock := newTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "status", "agent_id"}).
			AddRow(1, "Sea View Villa", 1_000_000.0, "For Sale", 9))

	// Only pending, active and accepted offers count as live.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "offers"`).
		WithArgs(1, "dup@example.com", "pending_verification", "active", "accepted").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	app := fiber.New()
	app.Post("/api/offers", CreateOffer)

	body := `{"property_id":1,"buyer_name":"Dana Buyer","buyer_email":"dup@example.com","amount":950000}`
	req := httptest.NewRequest("POST", "/api/offers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	respBody, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(respBody), "already have an open offer")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleStripeWebhookIgnoresTerminalOffers(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	mock := newTestDB(t)
	mock.MatchExpectationsInOrder(false)

	// The buyer withdrew before the replayed completion event arrived; the
	// offer must stay withdrawn and the event must still be acknowledged.
	mock.ExpectQuery(`SELECT (.+) FROM "offers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "status", "property_id"}).
			AddRow(4, "OF-AB12CD34", "withdrawn", 1))
	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","api_version":%q,"type":"checkout.session.completed","data":{"object":{"client_reference_id":"OF-AB12CD34"}}}`,
		stripe.APIVersion))

	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, "whsec_test")
	header := fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))

	app := fiber.New()
	app.Post("/api/webhook", HandleStripeWebhook)

	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// No update statements were issued for the terminal offer.
	assert.NoError(t, mock.ExpectationsWereMet())
}
