package opponent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tompom/gameserver/internal/game"
)

// ErrNoToken is returned when the oracle's reply carries none of the
// three directional tokens.
var ErrNoToken = errors.New("oracle: no directional token in reply")

var tokenRe = regexp.MustCompile(`(?i)\b(up|down|stay)\b`)

const oracleSystemPrompt = "Return only UP, DOWN, or STAY. No other text."

// Oracle asks an external chat-completion service for a move. Every
// failure mode (timeout, transport error, bad status, unparseable
// reply) is surfaced as an error; the caller keeps its previous target.
type Oracle struct {
	endpoint string
	model    string
	client   *http.Client
	cfg      game.Config
}

// NewOracle creates an oracle client with a strict request timeout.
func NewOracle(endpoint, model string, timeout time.Duration, cfg game.Config) *Oracle {
	return &Oracle{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
		cfg:      cfg,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// chatResponse covers the reply shapes of OpenAI-compatible services.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Message  *chatMessage  `json:"message"`
	Messages []chatMessage `json:"messages"`
}

// Move asks the service for one of UP, DOWN, or STAY and maps the reply
// to -1, 1, or 0.
func (o *Oracle) Move(ctx context.Context, role game.Role, s game.Snapshot) (int, error) {
	paddleY := s.LeftY
	if role == game.RoleRight {
		paddleY = s.RightY
	}
	prompt := fmt.Sprintf(
		"You control a Pong paddle. Reply with exactly one word: UP, DOWN, or STAY.\n"+
			"role=%s\npaddle_y=%g\nball_x=%g\nball_y=%g\nball_vx=%g\nball_vy=%g\nheight=%g\n",
		role, paddleY, s.BallX, s.BallY, s.BallVX, s.BallVY, o.cfg.Height,
	)

	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: oracleSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   4,
		Temperature: 0.2,
	})
	if err != nil {
		return 0, fmt.Errorf("oracle: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("oracle: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("oracle: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("oracle: status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("oracle: decode reply: %w", err)
	}

	content := ""
	switch {
	case len(out.Choices) > 0:
		content = out.Choices[0].Message.Content
	case out.Message != nil:
		content = out.Message.Content
	case len(out.Messages) > 0:
		content = out.Messages[len(out.Messages)-1].Content
	}

	m := tokenRe.FindStringSubmatch(content)
	if m == nil {
		return 0, ErrNoToken
	}
	switch strings.ToLower(m[1]) {
	case "up":
		return -1, nil
	case "down":
		return 1, nil
	}
	return 0, nil
}

// OracleStrategy adapts an Oracle's directional reply into a target:
// one paddle-height in the indicated direction from the current
// position, clamped to the court.
type OracleStrategy struct {
	oracle *Oracle
	cfg    game.Config
}

// NewOracleStrategy wraps an oracle client as a Strategy.
func NewOracleStrategy(oracle *Oracle, cfg game.Config) OracleStrategy {
	return OracleStrategy{oracle: oracle, cfg: cfg}
}

// Target implements Strategy.
func (s OracleStrategy) Target(ctx context.Context, role game.Role, snap game.Snapshot) (float64, error) {
	move, err := s.oracle.Move(ctx, role, snap)
	if err != nil {
		return 0, err
	}
	paddleY := snap.LeftY
	if role == game.RoleRight {
		paddleY = snap.RightY
	}
	return clamp(paddleY+float64(move)*s.cfg.PaddleH, 0, s.cfg.Height-s.cfg.PaddleH), nil
}
