package chat

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/chat/session"
	"github.com/ramana-ai/ramana/internal/cli"
	"github.com/ramana-ai/ramana/internal/file"
	"github.com/ramana-ai/ramana/store"
)

// RunPlain drives a line-based conversation loop, for terminals where the
// full-screen interface is unwanted.
func RunPlain(ctx context.Context, sess *session.Session, user string, files []*file.File) error {
	manager := sess.Manager()
	conversation, err := manager.EnsureActiveChat()
	if err != nil {
		return err
	}

	cli.Title("Ramana │ %s │ %s", sess.Model(), user)
	for _, f := range files {
		cli.FileInfo("Attached %s\n", f.Path)
	}
	printConversation(conversation)

	for {
		input, err := cli.PromptUser()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading input")
		}

		input = strings.TrimSpace(input)
		if strings.HasPrefix(input, "/") {
			quit, err := runSlashCommand(sess, input)
			if err != nil {
				cli.Error("%s\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		reply, err := sess.Send(ctx, input)
		if errors.Is(err, session.ErrEmptyInput) {
			continue
		}
		if err != nil {
			cli.Error("%s\n", err)
			if reply == "" {
				continue
			}
		}
		typeOut(reply)
	}
}

// runSlashCommand handles the /-prefixed conversation management commands.
// It returns true when the loop should exit.
func runSlashCommand(sess *session.Session, input string) (bool, error) {
	manager := sess.Manager()
	command, argument, _ := strings.Cut(input, " ")
	argument = strings.TrimSpace(argument)

	switch command {
	case "/quit", "/exit":
		return true, nil

	case "/new":
		conversation, err := manager.NewChat()
		if err != nil {
			return false, err
		}
		cli.UserCommand("Started chat %s\n", conversation.ID)
		printConversation(conversation)

	case "/chats":
		active := manager.ActiveChat()
		for _, summary := range manager.ListChatsForDisplay() {
			marker := "  "
			if active != nil && summary.ID == active.ID {
				marker = "* "
			}
			cli.UserCommand("%s%s  %s\n", marker, summary.ID, summary.Title)
		}

	case "/switch":
		if argument == "" {
			return false, errors.New("usage: /switch <chat-id>")
		}
		if err := manager.SelectChat(argument); err != nil {
			return false, err
		}
		conversation := manager.ActiveChat()
		if conversation == nil || conversation.ID != argument {
			return false, errors.Errorf("unknown chat %s", argument)
		}
		printConversation(conversation)

	case "/delete":
		if argument == "" {
			return false, errors.New("usage: /delete <chat-id>")
		}
		if err := manager.DeleteChat(argument); err != nil {
			return false, err
		}
		conversation, err := manager.EnsureActiveChat()
		if err != nil {
			return false, err
		}
		cli.UserCommand("Deleted %s, now on %s\n", argument, conversation.ID)

	default:
		return false, errors.Errorf("unknown command %s (try /new, /chats, /switch, /delete, /quit)", command)
	}
	return false, nil
}

func printConversation(conversation *store.Conversation) {
	cli.Separator()
	for _, message := range conversation.Messages {
		switch message.Role {
		case store.RoleUser:
			cli.UserInput("%s\n", message.Content)
		case store.RoleAssistant:
			cli.AIOutput("%s\n", message.Content)
		case store.RoleSystem:
			cli.FileInfo("%s\n", message.Content)
		}
	}
}

// typeOut reveals the reply one character at a time. The reply is fully
// received before the first character is shown.
func typeOut(reply string) {
	for _, r := range reply {
		cli.AIOutput(string(r))
		time.Sleep(typingInterval)
	}
	cli.AIOutput("\n")
}
