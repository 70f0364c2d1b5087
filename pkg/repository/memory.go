package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Looping69/AI-Agentic-Medical/pkg/domain"
)

// MemoryConversationStore keeps conversations and their messages in memory.
// It backs DB-less runs and tests; ordering semantics match the postgres
// repositories.
type MemoryConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
	messages      map[string][]domain.Message
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		conversations: make(map[string]domain.Conversation),
		messages:      make(map[string][]domain.Message),
	}
}

func (s *MemoryConversationStore) Create(ctx context.Context, userID, title string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is empty")
	}
	if title == "" {
		title = domain.DefaultConversationTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	s.conversations[conv.ID] = conv

	return conv.ID, nil
}

func (s *MemoryConversationStore) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return &conv, nil
}

func (s *MemoryConversationStore) Add(ctx context.Context, conversationID string, role domain.Role, content string, agentID *string) (string, error) {
	msg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		AgentID:        agentID,
		CreatedAt:      time.Now(),
	}
	if err := msg.Validate(); err != nil {
		return "", fmt.Errorf("validating message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[conversationID] = append(s.messages[conversationID], msg)

	return msg.ID, nil
}

// ListByConversation returns messages ascending by creation time. An unknown
// conversation id yields an empty slice.
func (s *MemoryConversationStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]domain.Message, len(s.messages[conversationID]))
	copy(messages, s.messages[conversationID])

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}
