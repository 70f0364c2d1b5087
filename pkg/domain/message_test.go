package domain

import "testing"

func TestMessageValidate(t *testing.T) {
	agentID := "a1"
	emptyID := ""

	tests := []struct {
		name    string
		message Message
		wantErr bool
	}{
		{name: "user", message: Message{Role: RoleUser, Content: "hi"}},
		{name: "system", message: Message{Role: RoleSystem, Content: "context"}},
		{name: "orchestrator", message: Message{Role: RoleOrchestrator, Content: "merged"}},
		{name: "agent with reference", message: Message{Role: RoleAgent, Content: "hi", AgentID: &agentID}},
		{name: "agent without reference", message: Message{Role: RoleAgent, Content: "hi"}, wantErr: true},
		{name: "agent with empty reference", message: Message{Role: RoleAgent, Content: "hi", AgentID: &emptyID}, wantErr: true},
		{name: "user with reference", message: Message{Role: RoleUser, Content: "hi", AgentID: &agentID}, wantErr: true},
		{name: "orchestrator with reference", message: Message{Role: RoleOrchestrator, Content: "hi", AgentID: &agentID}, wantErr: true},
		{name: "unknown role", message: Message{Role: "assistant", Content: "hi"}, wantErr: true},
	}

	for _, test := range tests {
		err := test.message.Validate()
		if (err != nil) != test.wantErr {
			t.Errorf("%s: got err=%v, wantErr=%v", test.name, err, test.wantErr)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "agent", "system", "orchestrator"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "assistant", "USER", "doctor"} {
		if _, err := ParseRole(invalid); err == nil {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}
