package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"repair-tracker/internal/dto"
	"repair-tracker/pkg/config"
	"repair-tracker/pkg/constants"
	"repair-tracker/pkg/utils"
)

func newUpdateStatusCommand() *cobra.Command {
	var baseURL, apiKey string

	cmd := &cobra.Command{
		Use:   "update-status <tracking-code> <message>",
		Short: "Append a status update through the running API",
		Long: `Posts to /api/v1/admin/update_status with the X-API-KEY header.
The API URL and key default to PUBLIC_BASE_URL and ADMIN_API_KEY.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if baseURL == "" {
				baseURL = cfg.Server.BaseURL
			}
			if apiKey == "" {
				apiKey = cfg.Admin.APIKey
			}
			if apiKey == "" {
				return fmt.Errorf("no API key: pass --key or set ADMIN_API_KEY")
			}

			req := dto.AdminStatusUpdateDTO{
				TrackingCode:  strings.ToUpper(args[0]),
				StatusMessage: strings.Join(args[1:], " "),
			}
			req.Trim()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			msg, err := postStatusUpdate(ctx, http.DefaultClient, baseURL, apiKey, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "API base URL (default PUBLIC_BASE_URL)")
	cmd.Flags().StringVar(&apiKey, "key", "", "Admin API key (default ADMIN_API_KEY)")

	return cmd
}

// postStatusUpdate возвращает сообщение API об успехе или текст ошибки,
// которым ответил API.
func postStatusUpdate(ctx context.Context, client *http.Client, baseURL, apiKey string, req dto.AdminStatusUpdateDTO) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/v1/admin/update_status"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(constants.APIKeyHeader, apiKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var errBody utils.ErrorBody
		if json.Unmarshal(raw, &errBody) == nil && errBody.Detail != "" {
			return "", fmt.Errorf("%d: %s", resp.StatusCode, errBody.Detail)
		}
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var msg dto.MessageDTO
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("unexpected response: %w", err)
	}
	return msg.Message, nil
}
