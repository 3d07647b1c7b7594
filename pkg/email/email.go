package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type OfferReceivedData struct {
	PropertyTitle string
	Reference     string
	BuyerName     string
	BuyerEmail    string
	BuyerPhone    string
	Amount        float64
	Message       string
}

type OfferAcceptedData struct {
	BuyerName     string
	PropertyTitle string
	Reference     string
	Amount        float64
	DepositAmount float64
	CheckoutURL   string
}

type PassportVerifiedData struct {
	BuyerName     string
	PropertyTitle string
	Reference     string
	ExpiresAt     time.Time
}

type InvestorLeadData struct {
	Name     string
	Email    string
	Phone    string
	Interest string
	Budget   string
	Message  string
}

type ContactReceivedData struct {
	Name          string
	Email         string
	Subject       string
	Message       string
	PropertyTitle string
}

type BlogPublishedData struct {
	AuthorName string
	Title      string
	Slug       string
	SEOScore   int
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Siam Estates <noreply@siamestates.co.th>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendOfferReceivedEmail(agentEmail string, data OfferReceivedData) error {
	return s.sendTemplateEmail(agentEmail, "New Offer on "+data.PropertyTitle, "offer_received.html", data)
}

func (s *EmailService) SendOfferAcceptedEmail(buyerEmail string, data OfferAcceptedData) error {
	return s.sendTemplateEmail(buyerEmail, "Your Offer Has Been Accepted 🎉", "offer_accepted.html", data)
}

func (s *EmailService) SendPassportVerifiedEmail(buyerEmail string, data PassportVerifiedData) error {
	return s.sendTemplateEmail(buyerEmail, "Your Offer Is Now Active", "passport_verified.html", data)
}

func (s *EmailService) SendInvestorLeadEmail(staffInbox string, data InvestorLeadData) error {
	return s.sendTemplateEmail(staffInbox, "New Investor Lead: "+data.Name, "investor_lead.html", data)
}

func (s *EmailService) SendContactReceivedEmail(staffInbox string, data ContactReceivedData) error {
	return s.sendTemplateEmail(staffInbox, "New Contact Message", "contact_received.html", data)
}

func (s *EmailService) SendBlogPublishedEmail(authorEmail string, data BlogPublishedData) error {
	return s.sendTemplateEmail(authorEmail, "Your Post Is Live: "+data.Title, "blog_published.html", data)
}
