package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const apiHost = "https://api.vk.com/method/"

// Config holds the VK API credentials and polling settings.
type Config struct {
	Token    string `mapstructure:"token"`
	GroupID  int64  `mapstructure:"group_id"`
	Version  string `mapstructure:"version"`
	PollWait int    `mapstructure:"poll_wait"`
}

// Client talks to the VK API over HTTP. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a VK API client.
func NewClient(cfg Config) *Client {
	if cfg.Version == "" {
		cfg.Version = "5.131"
	}
	if cfg.PollWait <= 0 {
		cfg.PollWait = 25
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.PollWait+10) * time.Second},
	}
}

// User is the subset of a VK profile the game needs.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LongPollServer is the polling endpoint handed out by VK.
type LongPollServer struct {
	Key    string `json:"key"`
	Server string `json:"server"`
	TS     string `json:"ts"`
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// call performs one API method call and decodes the "response" field.
func (c *Client) call(ctx context.Context, method string, params url.Values, response any) error {
	params.Set("access_token", c.cfg.Token)
	params.Set("v", c.cfg.Version)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, apiHost+method,
		strings.NewReader(params.Encode()),
	)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Response json.RawMessage `json:"response"`
		Error    *apiError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if response != nil {
		if err := json.Unmarshal(envelope.Response, response); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", method, err)
		}
	}
	return nil
}

// SendMessage posts a chat message with an optional keyboard.
// Fire-and-forget from the game's perspective: a failed send is
// returned to the caller but never retried here.
func (c *Client) SendMessage(ctx context.Context, peerID int64, text string, kbd Keyboard) error {
	serialized, err := kbd.Serialize()
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("peer_id", strconv.FormatInt(peerID, 10))
	params.Set("message", text)
	params.Set("keyboard", serialized)
	params.Set("random_id", strconv.FormatInt(rand.Int63(), 10))

	return c.call(ctx, "messages.send", params, nil)
}

// GetUsers resolves VK profiles for the given user ids.
func (c *Client) GetUsers(ctx context.Context, ids []int64) ([]User, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatInt(id, 10)
	}

	params := url.Values{}
	params.Set("user_ids", strings.Join(strIDs, ","))

	var users []User
	if err := c.call(ctx, "users.get", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetLongPollServer fetches a fresh long-poll endpoint for the group.
func (c *Client) GetLongPollServer(ctx context.Context) (*LongPollServer, error) {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(c.cfg.GroupID, 10))

	var server LongPollServer
	if err := c.call(ctx, "groups.getLongPollServer", params, &server); err != nil {
		return nil, err
	}
	return &server, nil
}

// Poll blocks on the long-poll server and returns the raw updates
// along with the next ts cursor. A "failed" answer from VK returns an
// empty batch and an empty ts, which tells the poller to re-acquire
// the server.
func (c *Client) Poll(ctx context.Context, server *LongPollServer) (json.RawMessage, string, error) {
	params := url.Values{}
	params.Set("act", "a_check")
	params.Set("key", server.Key)
	params.Set("ts", server.TS)
	params.Set("wait", strconv.Itoa(c.cfg.PollWait))

	pollURL := server.Server + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build poll request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("poll request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		TS      string          `json:"ts"`
		Updates json.RawMessage `json:"updates"`
		Failed  int             `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode poll response: %w", err)
	}

	if result.Failed != 0 {
		log.Warn().Int("failed", result.Failed).Msg("Long-poll server asked for a restart")
		return nil, "", nil
	}

	return result.Updates, result.TS, nil
}
