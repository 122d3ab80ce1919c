package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ramana-ai/ramana/account"
	"github.com/ramana-ai/ramana/chat"
	"github.com/ramana-ai/ramana/chat/session"
	"github.com/ramana-ai/ramana/cli"
	"github.com/ramana-ai/ramana/configuration"
	"github.com/ramana-ai/ramana/internal/file"
	"github.com/ramana-ai/ramana/internal/llm"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Attachments *file.AttachmentOpts
		Model       string
		Plain       bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Ramana",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if config.APIToken == "" {
				return errors.New("no API token configured: set HF_TOKEN or api_token in the config file")
			}

			// Resolve model.
			if opts.Model == "" {
				opts.Model = config.DefaultModel
			}
			if !config.HasModel(opts.Model) {
				return errors.Errorf("unknown model %s: run `ramana models` to list them", opts.Model)
			}

			// Identity is enforced only when an identity provider is configured.
			user := "guest"
			if config.AuthURL != "" {
				authSession, err := account.RequireSession(config)
				if err != nil {
					return err
				}
				user = authSession.DisplayName()
			}

			s, err := cli.OpenStore(config)
			if err != nil {
				return err
			}
			manager := chat.NewManager(s)

			client := llm.NewOpenAIClient(config.APIToken, config.APIHost)
			sess := session.New(manager, client, session.Options{
				Model:       opts.Model,
				MaxTokens:   config.MaxTokens,
				Temperature: config.Temperature,
				TopP:        config.TopP,
				Timeout:     time.Duration(config.RequestTimeout) * time.Second,
			})

			// Attach files before the first turn.
			opts.Attachments.Files = append(opts.Attachments.Files, args...)
			files, err := file.Parse(opts.Attachments)
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := sess.Attach(f.Path, f.Content); err != nil {
					return err
				}
			}

			if opts.Plain {
				return RunPlain(ctx, sess, user, files)
			}

			m, err := NewModel(config, manager, sess, user)
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "running chat")
			}
			return nil
		},
	}

	opts.Attachments = file.GetOpts(cmd)
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model to use for this chat")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Run a line-based prompt instead of the full-screen interface")
	return cmd
}
