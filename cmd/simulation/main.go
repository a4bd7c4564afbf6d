package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3001/api/builder/v1"

// Simplified DTOs for the script
type apiResponse struct {
	Data json.RawMessage `json:"data"`
}

type createSessionData struct {
	SessionId string `json:"session_id"`
}

type sessionStateData struct {
	Components []json.RawMessage `json:"components"`
	CanUndo    bool              `json:"can_undo"`
	CanRedo    bool              `json:"can_redo"`
}

func main() {
	fmt.Println("=== Builder Session Walkthrough ===")

	sessionID, err := createSession()
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	fmt.Printf("Session Created: %s\n", sessionID)

	steps := []struct {
		name string
		run  func() error
	}{
		{"add hero section", func() error {
			return post(sessionID+"/components", map[string]interface{}{
				"component": map[string]interface{}{
					"type":     "layout",
					"category": "hero",
					"props":    map[string]interface{}{"text": "Welcome"},
				},
			})
		}},
		{"add button", func() error {
			return post(sessionID+"/components", map[string]interface{}{
				"component": map[string]interface{}{
					"type":     "ui",
					"category": "button",
					"props":    map[string]interface{}{"text": "Get started"},
				},
			})
		}},
		{"undo", func() error { return post(sessionID+"/undo", nil) }},
		{"redo", func() error { return post(sessionID+"/redo", nil) }},
	}

	for _, step := range steps {
		color.Cyan("\nSTEP: %s", step.name)
		start := time.Now()
		if err := step.run(); err != nil {
			color.Red("Error: %v", err)
			continue
		}
		color.Green("OK (%v)", time.Since(start))
	}

	state, err := getState(sessionID)
	if err != nil {
		log.Fatalf("Failed to read final state: %v", err)
	}
	fmt.Printf("\nFinal state: %d root components, can_undo=%v can_redo=%v\n",
		len(state.Components), state.CanUndo, state.CanRedo)
}

func createSession() (string, error) {
	raw, err := do("POST", baseURL+"/sessions", nil)
	if err != nil {
		return "", err
	}
	var data createSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", err
	}
	return data.SessionId, nil
}

func getState(sessionID string) (*sessionStateData, error) {
	raw, err := do("GET", baseURL+"/"+sessionID+"/components", nil)
	if err != nil {
		return nil, err
	}
	var data sessionStateData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func post(path string, payload interface{}) error {
	_, err := do("POST", baseURL+"/"+path, payload)
	return err
}

func do(method, url string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(raw))
	}

	var res apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return res.Data, nil
}
