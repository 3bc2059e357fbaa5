// FILE: internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"chesssim/internal/client/display"
	"chesssim/internal/core"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

// APIError is a non-2xx reply from the server
type APIError struct {
	Status int
	core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.ErrorResponse.Error, e.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.ErrorResponse.Error)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	// Out receives the request trace; nil silences it.
	Out io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// long-poll waits up to 25s server side, simulations up to 55s
			Timeout: 60 * time.Second,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) out() io.Writer {
	if c.Out == nil {
		return io.Discard
	}
	return c.Out
}

// doRequest sends body as JSON and decodes the reply into result. A *string result receives
// the raw body.
func (c *Client) doRequest(method, path string, body interface{}, result interface{}) error {
	out := c.out()

	// Prepare body
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Display request
	display.Printf(out, display.Blue, "\n[API] %s %s\n", method, path)
	if bodyStr != "" {
		if c.Verbose {
			var prettyBody interface{}
			json.Unmarshal([]byte(bodyStr), &prettyBody)
			display.Println(out, display.Cyan, "Request Body:")
			display.PrettyPrintJSON(out, prettyBody)
		} else {
			display.Println(out, display.Blue, bodyStr)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		display.Println(out, display.Red, "[ERROR] "+err.Error())
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Display response
	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	display.Printf(out, statusColor, "[%d %s]\n", resp.StatusCode, http.StatusText(resp.StatusCode))

	if c.Verbose && len(respBody) > 0 {
		var prettyResp interface{}
		if err := json.Unmarshal(respBody, &prettyResp); err == nil {
			display.Println(out, display.Cyan, "Response Body:")
			display.PrettyPrintJSON(out, prettyResp)
		} else {
			display.Println(out, display.Cyan, "Response:")
			fmt.Fprintln(out, string(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if raw, ok := result.(*string); ok {
		*raw = string(respBody)
		return nil
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			display.Println(out, display.Red, "Response parse error: "+err.Error())
			return err
		}
	}
	return nil
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// GetGameWithPoll waits server side until the game has moved past moveCount moves
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) SetPlayers(gameID, white, black string) (*core.GameResponse, error) {
	req := &core.ConfigurePlayersRequest{White: white, Black: black}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPut, "/api/v1/games/"+gameID+"/players", req, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(gameID string) (*core.LegalMovesResponse, error) {
	var resp core.LegalMovesResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/moves", nil, &resp)
	return &resp, err
}

// MakeMove plays move; "cccc" asks the computer side to move
func (c *Client) MakeMove(gameID string, move string) (*core.GameResponse, error) {
	req := &core.MoveRequest{Move: move}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", req, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	req := &core.UndoRequest{Count: count}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/undo", req, &resp)
	return &resp, err
}

// GetBoard returns the board in its text layout
func (c *Client) GetBoard(gameID string) (string, error) {
	var text string
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &text)
	return text, err
}

func (c *Client) Simulate(req *core.SimulationRequest) (*core.SimulationResponse, error) {
	var resp core.SimulationResponse
	err := c.doRequest(http.MethodPost, "/api/v1/simulations", req, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData interface{}
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			// Try as raw string
			bodyData = body
		}
	}

	var raw string
	if err := c.doRequest(method, path, bodyData, &raw); err != nil {
		return err
	}
	if !c.Verbose && raw != "" {
		fmt.Fprintln(c.out(), raw)
	}
	return nil
}
