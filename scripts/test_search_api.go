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

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Search API Smoke Test\n")

	// 1. Conversational query, reranker on (default)
	color.Yellow("\n1. Conversational query")
	resp, body, err := sendRequest("POST", "/search/v1", map[string]interface{}{
		"query": "give me decks about healthcare",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var searchResp map[string]interface{}
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	// 2. File type filter
	color.Yellow("\n2. Query with file type filter")
	resp, body, err = sendRequest("POST", "/search/v1", map[string]interface{}{
		"query":     "textile industry",
		"file_type": "pdf",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	// 3. Reranker off via GET
	color.Yellow("\n3. GET query, reranker disabled")
	resp, body, err = sendRequest("GET", "/search/v1?query=cloud+kitchen&use_reranker=false", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	// 4. Empty query must be rejected
	color.Yellow("\n4. Empty query (expect 400)")
	resp, body, err = sendRequest("POST", "/search/v1", map[string]interface{}{"query": ""})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode == http.StatusBadRequest {
		color.Green("Status: %s (as expected)", resp.Status)
	} else {
		color.Red("Unexpected status: %s, body: %s", resp.Status, string(body))
	}

	// 5. Recent documents
	color.Yellow("\n5. Recent documents")
	resp, body, err = sendRequest("GET", "/document/v1/recent?limit=3", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &searchResp)
	prettyPrint(searchResp)

	color.Cyan("\n✅ Smoke test finished")
}
