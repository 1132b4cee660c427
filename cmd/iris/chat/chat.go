// Package chatcmder provides the chat command for talking to a running iris
// API server from the terminal.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/cliui"
	"github.com/plataforma-iris/iris/pkg/config"
	"github.com/plataforma-iris/iris/pkg/dotdir"
	"github.com/plataforma-iris/iris/pkg/logger"
	"github.com/plataforma-iris/iris/pkg/utils"
)

var (
	userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("você> ")
	irisPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("iris> ")
)

type chatCommander struct {
	apiTarget string
	fresh     bool
	debug     bool

	logger *zap.Logger
}

// chatRequest mirrors the API's /v1/chat request body.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// chatResponse is the slice of the API's chat result the CLI displays.
type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Sources   []struct {
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"sources"`
}

const chatLongDesc string = `Start an interactive chat session against a running iris API server.

The session id and transcript persist in the .iris/ directory, so a later
"iris chat" resumes the same server-side conversation. Use --fresh to drop
the stored session and start over.

Examples:
  iris chat
  iris chat --fresh
  iris chat --api-target http://localhost:8000`

const chatShortDesc string = "Interactive chat with a running iris server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}
	flags := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	config.AddStringFlag(cmd, flags, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().BoolVar(&cmder.fresh, "fresh", false, "Discard the stored session and start a new conversation")

	return cmd
}

func (c *chatCommander) run(configDir string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ddm := dotdir.NewManager()

	if c.fresh {
		if err := ddm.ClearSession(configDir); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
	}

	state, err := ddm.LoadSessionState(configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}
	if state == nil {
		state = &dotdir.SessionState{}
	}

	fmt.Println()
	if state.SessionID != "" {
		fmt.Printf("  %s Resuming session %s %s\n",
			cliui.SuccessMark,
			cliui.NameStyle.Render(state.SessionID),
			cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", len(state.Messages))),
		)
		if n := len(state.Messages); n > 0 {
			preview := utils.Truncate(state.Messages[n-1].Content, 72)
			fmt.Printf("  %s %s\n", cliui.DimStyle.Render("última:"), cliui.DimStyle.Render(preview))
		}
	} else {
		fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
	}

	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.NameStyle.Render(c.apiTarget),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		resp, err := c.send(input, state.SessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Printf("%s%s\n", irisPrompt, resp.Response)
		for _, src := range resp.Sources {
			fmt.Printf("  %s %s\n",
				cliui.DimStyle.Render("fonte:"),
				cliui.DimStyle.Render(fmt.Sprintf("%s (%s)", src.Title, src.Type)),
			)
		}
		fmt.Println()

		state.SessionID = resp.SessionID
		state.Messages = append(state.Messages,
			dotdir.SessionTurn{Role: "user", Content: input},
			dotdir.SessionTurn{Role: "assistant", Content: resp.Response},
		)
		if err := ddm.SaveSession(state, configDir); err != nil {
			c.logger.Warn("could not persist session state", zap.Error(err))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// send posts one message to the chat endpoint and decodes the reply.
func (c *chatCommander) send(message, sessionID string) (*chatResponse, error) {
	body, err := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("sending chat request",
		zap.String("api_target", c.apiTarget),
		zap.String("session_id", sessionID),
	)

	url := strings.TrimRight(c.apiTarget, "/") + "/v1/chat"
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		// Generation with retries can take a while
		Timeout: 5 * time.Minute,
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &out, nil
}
