// Package whatsapp is a thin client for the WhatsApp Business Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loyalty-hub/pkg/config"

	"golang.org/x/time/rate"
)

const DefaultLanguage = "en_US"

type Client struct {
	httpClient    *http.Client
	baseURL       string
	phoneNumberID string
	accessToken   string
	limiter       *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	return New(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken, cfg.WhatsAppRequestsPerSecond, nil)
}

func New(baseURL, phoneNumberID, accessToken string, requestsPerSecond float64, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 20
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		limiter:       rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

type SendResult struct {
	MessageID string
	WaID      string
}

type outboundMessage struct {
	MessagingProduct string        `json:"messaging_product"`
	RecipientType    string        `json:"recipient_type,omitempty"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             *textBody     `json:"text,omitempty"`
	Template         *templateBody `json:"template,omitempty"`
	Image            *mediaBody    `json:"image,omitempty"`
	Document         *mediaBody    `json:"document,omitempty"`
	Audio            *mediaBody    `json:"audio,omitempty"`
	Video            *mediaBody    `json:"video,omitempty"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type templateBody struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components,omitempty"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type mediaBody struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type sendResponse struct {
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *Client) SendText(ctx context.Context, to, body string) (*SendResult, error) {
	return c.send(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               CleanPhone(to),
		Type:             "text",
		Text:             &textBody{Body: body},
	})
}

func (c *Client) SendTemplate(ctx context.Context, to, name, language string, params []string) (*SendResult, error) {
	if language == "" {
		language = DefaultLanguage
	}
	tpl := &templateBody{Name: TemplateName(name), Language: templateLanguage{Code: language}}
	if len(params) > 0 {
		component := templateComponent{Type: "body"}
		for _, p := range params {
			component.Parameters = append(component.Parameters, templateParameter{Type: "text", Text: p})
		}
		tpl.Components = []templateComponent{component}
	}

	return c.send(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		To:               CleanPhone(to),
		Type:             "template",
		Template:         tpl,
	})
}

// SendMedia sends an image, document, audio or video message by public link.
func (c *Client) SendMedia(ctx context.Context, to, mediaType, link, caption string) (*SendResult, error) {
	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               CleanPhone(to),
		Type:             mediaType,
	}
	media := &mediaBody{Link: link, Caption: caption}
	switch mediaType {
	case "image":
		msg.Image = media
	case "document":
		msg.Document = media
	case "audio":
		media.Caption = ""
		msg.Audio = media
	case "video":
		msg.Video = media
	default:
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}
	return c.send(ctx, msg)
}

func (c *Client) send(ctx context.Context, msg outboundMessage) (*SendResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call whatsapp api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read whatsapp response: %w", err)
	}

	var parsed sendResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		if parsed.Error != nil {
			apiErr.Code = parsed.Error.Code
			apiErr.Message = parsed.Error.Message
		}
		return nil, apiErr
	}

	if len(parsed.Messages) == 0 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "response contained no message id"}
	}

	result := &SendResult{MessageID: parsed.Messages[0].ID}
	if len(parsed.Contacts) > 0 {
		result.WaID = parsed.Contacts[0].WaID
	}
	return result, nil
}

// CleanPhone strips "+", spaces and dashes.
func CleanPhone(phone string) string {
	return strings.NewReplacer("+", "", " ", "", "-", "").Replace(phone)
}

// TemplateName normalizes a display name into the vendor template name.
func TemplateName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
