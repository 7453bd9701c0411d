package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ParsedTicket is the structured field set the OCR service extracts from a
// ticket image. Parsing correctness is the collaborator's concern; the
// fields are consumed as-is.
type ParsedTicket struct {
	TicketID    string    `json:"ticket_id"`
	PhoneNumber string    `json:"phone_number"`
	FromStation string    `json:"from_station"`
	ToStation   string    `json:"to_station"`
	JourneyDate string    `json:"journey_date"`
	FareClass   string    `json:"class_value"`
	Validity    string    `json:"validity"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Client calls the parse-ticket-image service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OCR client for the given service base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ParseTicketImage uploads an image and returns the extracted fields.
func (c *Client) ParseTicketImage(ctx context.Context, filename string, file io.Reader) (*ParsedTicket, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse-ticket", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	var parsed ParsedTicket
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding ocr response: %w", err)
	}

	return &parsed, nil
}

// Status probes the OCR service health endpoint.
func (c *Client) Status(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ocr service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	return nil
}
