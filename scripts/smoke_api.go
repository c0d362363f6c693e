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

const baseURL = "http://localhost:7860/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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

	client := &http.Client{} // No timeout, generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	return parsed
}

func main() {
	color.Cyan("🚀 Starting Session Q&A API Smoke Test\n")

	// 1. Create a session
	color.Yellow("\n1. Create Session")
	resp, body, err := sendRequest("POST", "/sessions", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	created := decode(body)
	prettyPrint(created)

	data, _ := created["data"].(map[string]interface{})
	sessionID, _ := data["session_id"].(string)
	if sessionID == "" {
		color.Red("No session_id in response")
		os.Exit(1)
	}

	// 2. Ingest a URL
	color.Yellow("\n2. Ingest URL")
	resp, body, err = sendRequest("POST", "/sessions/"+sessionID+"/ingest", map[string]interface{}{
		"url": "https://en.wikipedia.org/wiki/Go_(programming_language)",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. Query
	color.Yellow("\n3. Query")
	resp, body, err = sendRequest("POST", "/sessions/"+sessionID+"/query", map[string]interface{}{
		"q": "Who designed the Go programming language?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Session status
	color.Yellow("\n4. Session Status")
	resp, body, err = sendRequest("GET", "/sessions/"+sessionID+"/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Refresh
	color.Yellow("\n5. Refresh Session")
	resp, body, err = sendRequest("POST", "/sessions/"+sessionID+"/refresh", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}
