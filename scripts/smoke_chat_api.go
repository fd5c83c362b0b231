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

const baseURL = "http://localhost:3000"

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

	client := &http.Client{} // No timeout, converse can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	userToken := os.Getenv("CHAT_API_TOKEN")
	if userToken == "" {
		color.Red("CHAT_API_TOKEN is not set (expects a JWT with a user_id claim)")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Chat API Smoke Test\n")

	// 1. Create a chat session
	color.Yellow("\n1. Create Chat Session")
	resp, body, err := sendRequest("POST", "/chat/create", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var createResp map[string]interface{}
	json.Unmarshal(body, &createResp)
	prettyPrint(createResp)

	var chatID string
	if data, ok := createResp["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			chatID = id
		}
	}
	if chatID == "" {
		color.Red("No chat id in create response, aborting")
		os.Exit(1)
	}

	// 2. List chats (new session should be on top)
	color.Yellow("\n2. List Chat Sessions")
	resp, body, err = sendRequest("GET", "/chat/list", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp map[string]interface{}
	json.Unmarshal(body, &listResp)
	prettyPrint(listResp)

	// 3. Converse (hits the live AI gateway)
	color.Yellow("\n3. Converse")
	resp, body, err = sendRequest("POST", "/chat/converse", userToken, map[string]interface{}{
		"chatId": chatID,
		"prompt": "In one sentence, what is a goroutine?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var converseResp map[string]interface{}
	json.Unmarshal(body, &converseResp)
	prettyPrint(converseResp)

	// 4. Rename the session
	color.Yellow("\n4. Rename Chat Session")
	resp, body, err = sendRequest("POST", "/chat/rename", userToken, map[string]interface{}{
		"chatId": chatID,
		"name":   "Smoke Test Chat",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var renameResp map[string]interface{}
	json.Unmarshal(body, &renameResp)
	prettyPrint(renameResp)

	// 5. Delete the session
	color.Yellow("\n5. Delete Chat Session")
	resp, body, err = sendRequest("POST", "/chat/delete", userToken, map[string]interface{}{
		"chatId": chatID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var deleteResp map[string]interface{}
	json.Unmarshal(body, &deleteResp)
	prettyPrint(deleteResp)

	// 6. Delete again, expect 404
	color.Yellow("\n6. Delete Again (expect 404)")
	resp, body, err = sendRequest("POST", "/chat/delete", userToken, map[string]interface{}{
		"chatId": chatID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var deleteAgainResp map[string]interface{}
	json.Unmarshal(body, &deleteAgainResp)
	prettyPrint(deleteAgainResp)

	color.Cyan("\n✅ Smoke test finished")
}
