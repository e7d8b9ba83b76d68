package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/adyen/storefront-e2e/internal/config"
)

// TelegramClient handles communication with the Telegram Bot API
type TelegramClient interface {
	SendMessage(text string) error
}

// HTTPTelegramClient implements TelegramClient using HTTP
type HTTPTelegramClient struct {
	config     *config.TelegramConfig
	httpClient *http.Client
}

// NewTelegramClient creates a new Telegram Bot API client
func NewTelegramClient(cfg *config.TelegramConfig) TelegramClient {
	return &HTTPTelegramClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessageRequest is the body of the sendMessage method
type SendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// SendMessageResponse is the envelope every Bot API method answers with
type SendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendMessage posts text to the configured chat
func (c *HTTPTelegramClient) SendMessage(text string) error {
	reqBody, err := json.Marshal(SendMessageRequest{
		ChatID: c.config.ChatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", c.config.APIBase, c.config.BotToken)

	httpReq, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var sendResp SendMessageResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !sendResp.OK {
		log.Printf("Telegram API error (status %d): %s", resp.StatusCode, sendResp.Description)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, sendResp.Description)
	}

	return nil
}
