package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"time"
)

// email request payload for ZeptoMail API
type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	TextBody string        `json:"textbody,omitempty"`
	HtmlBody string        `json:"htmlbody"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailWithName `json:"email_address"`
}

type emailWithName struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// EmailParams describes one outbound message. When HTML is empty a styled
// default template is rendered around Text, with HeaderColor controlling the
// banner (green for good news, red for suspensions and rejections).
type EmailParams struct {
	To          string
	ToName      string
	Subject     string
	Text        string
	HTML        string
	HeaderColor string
}

var tagStripper = regexp.MustCompile(`<[^>]*>`)

// SendEmail delivers an HTML email through the ZeptoMail HTTP API. Delivery
// is best-effort: callers log the returned error and move on, the response
// already computed for the client is never affected.
func SendEmail(p EmailParams) error {
	apiURL := os.Getenv("ZEPTO_API_URL") // e.g. https://api.zeptomail.com/v1.1/email
	apiKey := os.Getenv("ZEPTO_API_KEY") // e.g. Zoho-enczapikey xxxxx
	from := os.Getenv("EMAIL_FROM")      // e.g. noreply@klyntfund.com

	if apiURL == "" || apiKey == "" || from == "" {
		log.Println("Missing ZEPTO_API_URL, ZEPTO_API_KEY, or EMAIL_FROM")
		return fmt.Errorf("missing required email config")
	}

	html := p.HTML
	if html == "" {
		html = defaultTemplate(p.Subject, p.Text, p.HeaderColor)
	}

	text := p.Text
	if text == "" {
		text = tagStripper.ReplaceAllString(html, "")
	}

	toName := p.ToName
	if toName == "" {
		toName = "User"
	}

	payload := emailRequest{
		From: emailAddress{Address: from},
		To: []toRecipient{
			{
				Email: emailWithName{
					Address: p.To,
					Name:    toName,
				},
			},
		},
		Subject:  p.Subject,
		TextBody: text,
		HtmlBody: html,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal email payload: %v", err)
		return err
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("Failed to create request: %v", err)
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		log.Printf("ZeptoMail returned status %s", resp.Status)
		return fmt.Errorf("zeptomail API error: %s", resp.Status)
	}

	log.Printf("Email successfully sent to %s", p.To)
	return nil
}

func defaultTemplate(subject, text, headerColor string) string {
	if headerColor == "" {
		headerColor = "#4F46E5"
	}
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; background-color:#f9f9f9; padding:30px;">
        <div style="max-width:600px; margin:0 auto; background:#ffffff; border-radius:8px; overflow:hidden; box-shadow:0 2px 8px rgba(0,0,0,0.1);">
          <div style="background:%s; padding:20px; text-align:center; color:white;">
            <h1 style="margin:0; font-size:20px;">%s</h1>
          </div>
          <div style="padding:30px; color:#333; line-height:1.6;">
            <p style="font-size:16px; white-space:pre-line;">%s</p>
            <p style="margin-top:20px; font-size:14px; color:#555;">
              Thank you,<br/>
              <strong>KLYTNFUND Team</strong>
            </p>
          </div>
          <div style="background:#f3f4f6; padding:15px; text-align:center; font-size:12px; color:#777;">
            &copy; %d KLYTNFUND. All rights reserved.
          </div>
        </div>
      </div>`, headerColor, subject, text, time.Now().Year())
}
