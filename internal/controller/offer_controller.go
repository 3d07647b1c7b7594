package controller

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/email"
	"siamestates_backend/pkg/utils/image"
	"siamestates_backend/pkg/utils/jwt"
	"siamestates_backend/pkg/utils/storage"
	"siamestates_backend/pkg/utils/validation"
)

// DepositPercent of the accepted offer amount is collected as the
// reservation deposit.
const DepositPercent = 5

type OfferInput struct {
	PropertyID       uint    `json:"property_id" validate:"required"`
	BuyerName        string  `json:"buyer_name" validate:"required"`
	BuyerEmail       string  `json:"buyer_email" validate:"required,email"`
	BuyerPhone       string  `json:"buyer_phone"`
	BuyerNationality string  `json:"buyer_nationality"`
	Amount           float64 `json:"amount" validate:"required"`
	Message          string  `json:"message"`
}

// CreateOffer places a bid on a listing. The offer stays
// pending_verification until a passport has been uploaded and approved.
func CreateOffer(c *fiber.Ctx) error {
	input := new(OfferInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.BuyerName == "" || input.BuyerEmail == "" || input.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Buyer name, email and a positive amount are required",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, input.PropertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if !property.IsOpenForOffers() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This property is not open for offers",
		})
	}

	minimum := model.MinimumOfferAmount(property.Price)
	if input.Amount < minimum {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          fmt.Sprintf("Offers below %d%% of the asking price are not accepted", model.MinOfferPercent),
			"minimum_amount": minimum,
		})
	}

	// One live offer per buyer per listing.
	var existing int64
	database.GetDB().Model(&model.Offer{}).
		Where("property_id = ? AND buyer_email = ? AND status IN ?",
			property.ID, input.BuyerEmail,
			[]model.OfferStatus{model.OfferStatusPendingVerification, model.OfferStatusActive, model.OfferStatusAccepted}).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already have an open offer on this property",
		})
	}

	offer := model.Offer{
		PropertyID:       property.ID,
		BuyerName:        input.BuyerName,
		BuyerEmail:       input.BuyerEmail,
		BuyerPhone:       input.BuyerPhone,
		BuyerNationality: input.BuyerNationality,
		Amount:           input.Amount,
		Message:          input.Message,
		Status:           model.OfferStatusPendingVerification,
	}

	if err := database.GetDB().Create(&offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create offer",
		})
	}

	model.NotifyUser(database.GetDB(), property.AgentID, model.NotificationOfferReceived,
		"New offer received",
		fmt.Sprintf("%s offered ฿%.0f on %s", offer.BuyerName, offer.Amount, property.Title),
		"/dashboard/offers")

	if email.GlobalEmailService != nil {
		var agent model.User
		if err := database.GetDB().First(&agent, property.AgentID).Error; err == nil {
			err := email.GlobalEmailService.SendOfferReceivedEmail(agent.Email, email.OfferReceivedData{
				PropertyTitle: property.Title,
				Reference:     offer.Reference,
				BuyerName:     offer.BuyerName,
				BuyerEmail:    offer.BuyerEmail,
				BuyerPhone:    offer.BuyerPhone,
				Amount:        offer.Amount,
				Message:       offer.Message,
			})
			if err != nil {
				log.Printf("Could not send offer notification email: %v", err)
			}
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Your offer has been recorded. Please upload your passport to activate it.",
		"reference": offer.Reference,
		"offer":     offer,
	})
}

// UploadOfferPassport attaches the buyer's passport scan to a pending
// offer. The file goes to a private bucket prefix, never the CDN.
func UploadOfferPassport(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var offer model.Offer
	if err := database.GetDB().Where("reference = ?", reference).First(&offer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if offer.Status != model.OfferStatusPendingVerification {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This offer is not awaiting verification",
		})
	}

	file, err := c.FormFile("passport")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidatePassport(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var result storage.UploadResult
	if file.Header.Get("Content-Type") == "application/pdf" {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not read file",
			})
		}
		defer src.Close()

		buf, err := readAll(src)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not read file",
			})
		}
		result, err = storage.UploadPassport(offer.Reference, file.Filename, "application/pdf", buf)
		if err != nil {
			log.Printf("Could not upload passport: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not store document",
			})
		}
	} else {
		buf, contentType, err := image.ProcessImage(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		result, err = storage.UploadPassport(offer.Reference, file.Filename, contentType, buf)
		if err != nil {
			log.Printf("Could not upload passport: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not store document",
			})
		}
	}

	now := nowFunc()
	updates := map[string]interface{}{
		"passport_key": result.Key,
		"uploaded_at":  now,
	}
	if err := database.GetDB().Model(&offer).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update offer",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Passport received. Our team will verify it shortly.",
	})
}

type VerifyInput struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// VerifyOfferPassport is the staff decision on an uploaded passport.
// Approval activates the offer and starts its validity window.
func VerifyOfferPassport(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	input := new(VerifyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var offer model.Offer
	if err := database.GetDB().Preload("Property").First(&offer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if offer.Status != model.OfferStatusPendingVerification {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This offer is not awaiting verification",
		})
	}

	if !offer.HasPassport() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No passport has been uploaded for this offer",
		})
	}

	now := nowFunc()

	if !input.Approve {
		if err := database.GetDB().Model(&offer).Update("status", model.OfferStatusRejected).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update offer",
			})
		}
		return c.JSON(fiber.Map{
			"message": "Offer rejected",
		})
	}

	updates := map[string]interface{}{
		"status":         model.OfferStatusActive,
		"verified_at":    now,
		"verified_by_id": claims.UserID,
		"activated_at":   now,
	}
	if err := database.GetDB().Model(&offer).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update offer",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendPassportVerifiedEmail(offer.BuyerEmail, email.PassportVerifiedData{
			BuyerName:     offer.BuyerName,
			PropertyTitle: offer.Property.Title,
			Reference:     offer.Reference,
			ExpiresAt:     now.AddDate(0, 0, model.OfferValidityDays),
		})
		if err != nil {
			log.Printf("Could not send passport verified email: %v", err)
		}
	}

	database.GetDB().Preload("Property").First(&offer, offer.ID)
	return c.JSON(fiber.Map{
		"message": "Offer activated",
		"offer":   offer,
	})
}

// ListOffers is the staff offer table with filters.
func ListOffers(c *fiber.Ctx) error {
	query := database.GetDB().Preload("Property")

	if status := c.Query("status"); status != "" {
		query = query.Where("offers.status = ?", status)
	}
	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("offers.property_id = ?", propertyID)
	}

	var offers []model.Offer
	if err := query.Order("offers.created_at desc").Find(&offers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch offers",
		})
	}

	return c.JSON(offers)
}

type OfferStatusInput struct {
	Status string `json:"status"`
}

// UpdateOfferStatus accepts or rejects an active offer. Acceptance moves
// the listing to Under Offer and rejects competing active offers in the
// same transaction.
func UpdateOfferStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	input := new(OfferStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	next := model.OfferStatus(input.Status)
	if next != model.OfferStatusAccepted && next != model.OfferStatusRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Invalid status value",
			"valid_statuses": []string{string(model.OfferStatusAccepted), string(model.OfferStatusRejected)},
		})
	}

	var offer model.Offer
	if err := database.GetDB().Preload("Property").First(&offer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if !offer.CanTransitionTo(next) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fmt.Sprintf("Cannot move offer from %s to %s", offer.Status, next),
		})
	}

	tx := database.GetDB().Begin()

	if err := tx.Model(&offer).Update("status", next).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update offer status",
		})
	}

	if next == model.OfferStatusAccepted {
		if err := tx.Model(&model.Property{}).Where("id = ?", offer.PropertyID).
			Update("status", model.PropertyStatusUnderOffer).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update property status",
			})
		}

		if err := tx.Model(&model.Offer{}).
			Where("property_id = ? AND id <> ? AND status = ?", offer.PropertyID, offer.ID, model.OfferStatusActive).
			Update("status", model.OfferStatusRejected).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not reject competing offers",
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the update",
		})
	}

	database.GetDB().Preload("Property").First(&offer, id)

	return c.JSON(fiber.Map{
		"message": "Offer status updated successfully",
		"offer":   offer,
	})
}

// CreateDepositCheckout opens a Stripe checkout session for the
// reservation deposit of an accepted offer and emails the buyer the link.
func CreateDepositCheckout(c *fiber.Ctx) error {
	id := c.Params("id")

	var offer model.Offer
	if err := database.GetDB().Preload("Property").First(&offer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if offer.Status != model.OfferStatusAccepted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Deposit checkout is only available for accepted offers",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	deposit := offer.Amount * DepositPercent / 100

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(offer.BuyerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("thb"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Reservation deposit: " + offer.Property.Title),
					},
					UnitAmount: stripe.Int64(int64(deposit * 100)), // satang
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(os.Getenv("STRIPE_SUCCESS_URL")),
		CancelURL:         stripe.String(os.Getenv("STRIPE_CANCEL_URL")),
		ClientReferenceID: stripe.String(offer.Reference),
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		log.Printf("Could not create checkout session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	updates := map[string]interface{}{
		"stripe_session_id": session.ID,
		"deposit_amount":    deposit,
	}
	if err := database.GetDB().Model(&offer).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save checkout session",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendOfferAcceptedEmail(offer.BuyerEmail, email.OfferAcceptedData{
			BuyerName:     offer.BuyerName,
			PropertyTitle: offer.Property.Title,
			Reference:     offer.Reference,
			Amount:        offer.Amount,
			DepositAmount: deposit,
			CheckoutURL:   session.URL,
		})
		if err != nil {
			log.Printf("Could not send offer accepted email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"checkout_url":   session.URL,
		"deposit_amount": deposit,
	})
}

// HandleStripeWebhook marks an offer deposit_paid when its checkout
// session completes.
func HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	if event.Type != "checkout.session.completed" {
		return c.SendStatus(fiber.StatusOK)
	}

	reference, _ := event.Data.Object["client_reference_id"].(string)
	if reference == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	var offer model.Offer
	if err := database.GetDB().Preload("Property").Where("reference = ?", reference).First(&offer).Error; err != nil {
		log.Printf("Webhook for unknown offer reference %q", reference)
		return c.SendStatus(fiber.StatusOK)
	}

	// A replayed or late event must not move an offer out of a terminal
	// state, e.g. after the buyer already withdrew.
	if !offer.CanTransitionTo(model.OfferStatusDepositPaid) {
		log.Printf("Ignoring completed checkout for offer %s in status %s", offer.Reference, offer.Status)
		return c.SendStatus(fiber.StatusOK)
	}

	now := nowFunc()
	updates := map[string]interface{}{
		"status":          model.OfferStatusDepositPaid,
		"deposit_paid_at": now,
	}
	if err := database.GetDB().Model(&offer).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update offer",
		})
	}

	model.NotifyUser(database.GetDB(), offer.Property.AgentID, model.NotificationDepositPaid,
		"Deposit paid",
		fmt.Sprintf("Deposit of ฿%.0f received for %s", offer.DepositAmount, offer.Property.Title),
		"/dashboard/offers")

	return c.SendStatus(fiber.StatusOK)
}

// WithdrawOffer lets a buyer withdraw using their reference code and the
// email the offer was placed with.
func WithdrawOffer(c *fiber.Ctx) error {
	reference := c.Params("reference")

	input := struct {
		Email string `json:"email"`
	}{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var offer model.Offer
	if err := database.GetDB().Where("reference = ? AND buyer_email = ?", reference, input.Email).
		First(&offer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if !offer.CanTransitionTo(model.OfferStatusWithdrawn) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This offer can no longer be withdrawn",
		})
	}

	if err := database.GetDB().Model(&offer).Update("status", model.OfferStatusWithdrawn).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not withdraw offer",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Your offer has been withdrawn",
	})
}

// GetOfferByReference lets a buyer check their offer status without
// authentication. Sensitive fields are never included.
func GetOfferByReference(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var offer model.Offer
	if err := database.GetDB().Preload("Property").Where("reference = ?", reference).First(&offer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	return c.JSON(fiber.Map{
		"reference":      offer.Reference,
		"status":         offer.Status,
		"amount":         offer.Amount,
		"property_title": offer.Property.Title,
		"created_at":     offer.CreatedAt,
	})
}

func readAll(r io.Reader) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf, nil
}
