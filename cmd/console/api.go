package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// StateResponse mirrors GET /api/state.
type StateResponse struct {
	State             *state.WorldState     `json:"state"`
	MilitaryByFaction []state.FactionForces `json:"military_by_faction"`
	IntelStrength     int                   `json:"intel_strength"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// decodeResponse reads body into out, turning non-200 replies into errors
// carrying the API's error message.
func decodeResponse(resp *http.Response, action string, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chat.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s failed: %s", action, errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", action, err)
	}
	return nil
}

func postJSON(client *http.Client, endpoint, action string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return decodeResponse(resp, action, out)
}

func requestBriefing(client *http.Client, baseURL string, faction world.FactionID) (*chat.TurnResponse, error) {
	req := chat.BriefingRequest{
		Faction:     faction,
		FactionName: world.FactionDisplayName(faction),
	}
	var briefing chat.TurnResponse
	if err := postJSON(client, baseURL+"/api/briefing", "briefing", req, &briefing); err != nil {
		return nil, err
	}
	return &briefing, nil
}

func sendTurn(client *http.Client, baseURL string, req chat.TurnRequest) (*chat.TurnResponse, error) {
	var turn chat.TurnResponse
	if err := postJSON(client, baseURL+"/api/turn", "turn", req, &turn); err != nil {
		return nil, err
	}
	return &turn, nil
}

func resetGame(client *http.Client, baseURL string) error {
	return postJSON(client, baseURL+"/api/reset", "reset", struct{}{}, nil)
}

func getState(client *http.Client, baseURL string, faction world.FactionID) (*StateResponse, error) {
	endpoint := baseURL + "/api/state?faction=" + url.QueryEscape(string(faction))
	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var sr StateResponse
	if err := decodeResponse(resp, "state", &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}
