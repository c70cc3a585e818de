package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Mail goes out through the hosted email API. Without an API key configured
// the mailer logs and drops, so local development never needs an account.

var mailClient = &http.Client{Timeout: 30 * time.Second}

func SendMail(to, subject, html string) (bool, error) {
	apiKey := os.Getenv("EMAIL_API_KEY")
	if apiKey == "" {
		log.Printf("EMAIL_API_KEY not set, dropping mail to %s (%s)", to, subject)
		return false, nil
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "no-reply@weddingshare.app"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"from":    from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := mailClient.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return false, fmt.Errorf("email API returned status %d: %s", res.StatusCode, string(body))
	}
	return true, nil
}
