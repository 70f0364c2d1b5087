package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/russross/blackfriday"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

// TranscriptHTML renders a conversation transcript for export. Message
// content is treated as markdown, which is how agents format their answers.
func TranscriptHTML(conversation *domain.Conversation, messages []domain.Message, agentNames map[string]string) string {
	var b strings.Builder

	b.WriteString("<article class=\"transcript\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(conversation.Title))

	for _, msg := range messages {
		label := roleLabel(msg, agentNames)
		fmt.Fprintf(&b, "<section class=\"message message-%s\">\n", msg.Role)
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(label))
		b.Write(blackfriday.MarkdownCommon([]byte(msg.Content)))
		b.WriteString("</section>\n")
	}

	b.WriteString("</article>\n")
	return b.String()
}

func roleLabel(msg domain.Message, agentNames map[string]string) string {
	switch msg.Role {
	case domain.RoleAgent:
		if msg.AgentID != nil {
			if name, ok := agentNames[*msg.AgentID]; ok {
				return name
			}
		}
		return "Agent"
	case domain.RoleOrchestrator:
		return "Orchestrator"
	case domain.RoleSystem:
		return "System"
	default:
		return "Doctor"
	}
}
