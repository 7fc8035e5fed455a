package halloffame

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quizhaus/quizhaus/internal/model"
)

// Client posts accepted scores to an external hall-of-fame HTTP
// service. The wire contract matches the submission contract: player
// name, question set and a non-negative score.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type submitRequest struct {
	PlayerName  string `json:"playerName"`
	QuestionSet string `json:"questionSet"`
	Score       int    `json:"score"`
	UserID      string `json:"userId,omitempty"`
}

// SubmitScore posts a single score record
func (c *Client) SubmitScore(ctx context.Context, record *model.ScoreRecord) error {
	body, err := json.Marshal(submitRequest{
		PlayerName:  record.PlayerName,
		QuestionSet: record.QuestionSet,
		Score:       record.Score,
		UserID:      string(record.UserID),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/hall-of-fame", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hall-of-fame service returned status %d", resp.StatusCode)
	}
	return nil
}
