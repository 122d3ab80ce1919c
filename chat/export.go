package chat

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/store"
)

// ExportText renders a conversation as plain "role: content" lines, one
// message per line in chronological order.
func ExportText(conversation *store.Conversation) string {
	lines := make([]string, 0, len(conversation.Messages))
	for _, message := range conversation.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", message.Role, message.Content))
	}
	return strings.Join(lines, "\n")
}

// WriteExport writes the plain-text export of a conversation.
func WriteExport(w io.Writer, conversation *store.Conversation) error {
	if _, err := io.WriteString(w, ExportText(conversation)+"\n"); err != nil {
		return errors.Wrap(err, "writing export")
	}
	return nil
}
