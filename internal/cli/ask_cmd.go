package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"farm-assist-go/pkg/advisor"

	"github.com/spf13/cobra"
)

type askOptions struct {
	server string
	token  string
}

func newAskCmd(app *App) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a farming question",
		Long: "Without --server the question is classified locally and answered from the offline answer bank.\n" +
			"With --server the question is sent to the assistant API; --token makes it an identified request.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.New("question must not be empty")
			}
			if opts.server == "" {
				return runAskOffline(app, question)
			}
			return runAskRemote(cmd.Context(), app, opts, question)
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "", "Assistant API base URL, e.g. http://localhost:8080")
	cmd.Flags().StringVar(&opts.token, "token", "", "Access token for identified requests")
	return cmd
}

func runAskOffline(app *App, question string) error {
	topic, text := advisor.Answer(question)
	fmt.Fprintf(app.Out, "[%s]\n%s\n", topic, text)
	return nil
}

type chatEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    *struct {
		AssistantMessage struct {
			Content string `json:"content"`
		} `json:"assistantMessage"`
		UsedFallback bool   `json:"usedFallback"`
		Topic        string `json:"topic"`
	} `json:"data"`
}

// runAskRemote 有 token 时调用 /api/v1/chat，否则调用匿名的 /api/v1/chat/offline。
func runAskRemote(ctx context.Context, app *App, opts askOptions, question string) error {
	path := "/api/v1/chat/offline"
	if opts.token != "" {
		path = "/api/v1/chat"
	}
	body, err := json.Marshal(map[string]string{"content": question})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(opts.server, "/")+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	resp, err := app.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling assistant: %w", err)
	}
	defer resp.Body.Close()

	var env chatEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || env.Data == nil {
		return fmt.Errorf("assistant returned %d: %s", resp.StatusCode, env.Message)
	}

	fmt.Fprintf(app.Out, "[%s]\n%s\n", env.Data.Topic, env.Data.AssistantMessage.Content)
	if env.Error != "" {
		fmt.Fprintf(app.Out, "(%s)\n", env.Error)
	}
	return nil
}
