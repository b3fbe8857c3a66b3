// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
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
type ManagementLinkData struct {
	Tier string
	Link string
}

type AdminLinkData struct {
	Link      string
	ExpiresIn string
}

type SubmissionReviewedData struct {
	Title   string
	SiteURL string
	Reason  string
}

type DigestListing struct {
	Title       string
	Description string
	URL         string
}

type WeeklyDigestData struct {
	Listings []DigestListing
	Date     time.Time
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
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

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Resend API error: Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *EmailService) SendManagementLinkEmail(to, tier, link string) error {
	return s.sendTemplateEmail(to, "Manage your StackList listings", "management_link.html", ManagementLinkData{
		Tier: tier,
		Link: link,
	})
}

func (s *EmailService) SendAdminLinkEmail(to, link string) error {
	return s.sendTemplateEmail(to, "Your StackList admin sign-in link", "admin_link.html", AdminLinkData{
		Link:      link,
		ExpiresIn: "30 minutes",
	})
}

func (s *EmailService) SendSubmissionApprovedEmail(to, title, siteURL string) error {
	return s.sendTemplateEmail(to, "Your listing is live on StackList", "submission_approved.html", SubmissionReviewedData{
		Title:   title,
		SiteURL: siteURL,
	})
}

func (s *EmailService) SendSubmissionRejectedEmail(to, title, reason string) error {
	return s.sendTemplateEmail(to, "About your StackList submission", "submission_rejected.html", SubmissionReviewedData{
		Title:  title,
		Reason: reason,
	})
}

func (s *EmailService) SendWeeklyDigestEmail(to string, listings []DigestListing) error {
	return s.sendTemplateEmail(to, "New tools on StackList this week", "weekly_digest.html", WeeklyDigestData{
		Listings: listings,
		Date:     time.Now(),
	})
}
