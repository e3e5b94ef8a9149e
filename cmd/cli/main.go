package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bank-cli",
		Short: "Bank service CLI tool",
		Long:  `A command line interface for interacting with the bank service API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the bank service API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	loginCmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			login(args[0], args[1])
		},
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List your accounts",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/")
		},
	}

	transactionsCmd := &cobra.Command{
		Use:   "transactions <account-id>",
		Short: "List an account's transaction history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0] + "/transactions")
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <account-id> <amount>",
		Short: "Withdraw from one of your accounts",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/accounts/withdraw", map[string]string{
				"account_id": args[0],
				"amount":     args[1],
			})
		},
	}

	transferCmd := &cobra.Command{
		Use:   "transfer <source-id> <target-id> <amount>",
		Short: "Transfer between accounts",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/accounts/transfer", map[string]string{
				"source_account_id": args[0],
				"target_account_id": args[1],
				"amount":            args[2],
			})
		},
	}

	rootCmd.AddCommand(loginCmd, accountsCmd, transactionsCmd, withdrawCmd, transferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func login(email, password string) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Login FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Token)
}

func get(path string) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	doJSON(req)
}

func post(path string, payload map[string]string) {
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	doJSON(req)
}

func doJSON(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}
