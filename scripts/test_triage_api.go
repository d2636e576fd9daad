package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return resp, data, err
}

func main() {
	staffToken := os.Getenv("STAFF_TOKEN")

	color.Cyan("🚀 Starting Triage API Smoke Test\n")

	color.Yellow("\n[PUBLIC] 1. Submit Single-Shot Intake")
	resp, data, err := sendRequest("POST", "/triage", "", map[string]interface{}{
		"contact":       "+5511988887777",
		"symptoms_text": "dor de cabeça leve desde ontem",
		"channel":       "web",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(data)

	var envelope struct {
		Data struct {
			TriageCode string `json:"triage_code"`
		} `json:"data"`
	}
	_ = json.Unmarshal(data, &envelope)

	if envelope.Data.TriageCode != "" {
		color.Yellow("\n[PUBLIC] 2. Look Up Triage By Code")
		resp, data, err = sendRequest("GET", "/triage/code/"+envelope.Data.TriageCode, "", nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(data)
	}

	color.Yellow("\n[GATEWAY] 3. Send Conversational Message")
	resp, data, err = sendRequest("POST", "/webhook/message", "", map[string]interface{}{
		"contact": "+5511977776666",
		"message": "estou com febre há dois dias",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(data)

	if staffToken == "" {
		color.Yellow("\nSTAFF_TOKEN not set, skipping staff endpoints")
		return
	}

	color.Yellow("\n[STAFF] 4. List Triage Records")
	resp, data, err = sendRequest("GET", "/triage?limit=5", staffToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(data)

	color.Yellow("\n[STAFF] 5. Review Queue")
	resp, data, err = sendRequest("GET", "/review/queue", staffToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(data)

	color.Cyan("\n✅ Smoke test finished")
}
