package services

import (
	"batepapo/domain"
	"batepapo/errors"
	"batepapo/moderation"
	"batepapo/observability"
	"batepapo/repositories"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type IChatService interface {
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	ListMessages(ctx context.Context, user string, limit int) ([]domain.Message, error)
	UpdateMessage(ctx context.Context, cmd domain.UpdateMessageCommand) (domain.Message, error)
	DeleteMessage(ctx context.Context, user string, id uuid.UUID) error
}

type ChatService struct {
	log          *slog.Logger
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	moderator    *moderation.Moderator
	now          func() time.Time
}

func NewChatService(log *slog.Logger, participants repositories.IParticipantRepository,
	messages repositories.IMessageRepository, moderator *moderation.Moderator, now func() time.Time) *ChatService {
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		log:          log,
		participants: participants,
		messages:     messages,
		moderator:    moderator,
		now:          now,
	}
}

// PostMessage stores a chat message authored by a current participant.
func (s *ChatService) PostMessage(_ context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	if !cmd.Kind.IsUserKind() {
		return domain.Message{}, fmt.Errorf("type %q: %w", cmd.Kind, errors.ErrInvalidPayload)
	}
	if err := s.ensureParticipant(cmd.From); err != nil {
		return domain.Message{}, err
	}
	message := domain.NewMessage(cmd.From, cmd.To, s.censor(cmd.Text), cmd.Kind, s.now())
	if err := s.messages.Append(message); err != nil {
		return domain.Message{}, err
	}
	observability.MessagesPosted.WithLabelValues(string(message.Kind)).Inc()
	return message, nil
}

// ListMessages returns the messages user may read, oldest first.
// A positive limit keeps only the most recent ones; zero means everything.
func (s *ChatService) ListMessages(_ context.Context, user string, limit int) ([]domain.Message, error) {
	if limit < 0 {
		return nil, errors.ErrInvalidLimit
	}
	return s.messages.List(func(m domain.Message) bool {
		return m.VisibleTo(user)
	}, limit)
}

// UpdateMessage rewrites the destination, text and type of a message owned by cmd.Author.
func (s *ChatService) UpdateMessage(_ context.Context, cmd domain.UpdateMessageCommand) (domain.Message, error) {
	if !cmd.Kind.IsUserKind() {
		return domain.Message{}, fmt.Errorf("type %q: %w", cmd.Kind, errors.ErrInvalidPayload)
	}
	if err := s.ensureParticipant(cmd.Author); err != nil {
		return domain.Message{}, err
	}
	message, err := s.ownedMessage(cmd.Author, cmd.ID)
	if err != nil {
		return domain.Message{}, err
	}
	message.To = cmd.To
	message.Text = s.censor(cmd.Text)
	message.Kind = cmd.Kind
	if err = s.messages.Update(message); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func (s *ChatService) DeleteMessage(_ context.Context, user string, id uuid.UUID) error {
	if _, err := s.ownedMessage(user, id); err != nil {
		return err
	}
	return s.messages.Delete(id)
}

func (s *ChatService) ensureParticipant(name string) error {
	_, err := s.participants.Find(name)
	switch {
	case errors.Is(err, errors.ErrParticipantNotFound):
		return fmt.Errorf("%q: %w", name, errors.ErrUnknownSender)
	case err != nil:
		return err
	}
	return nil
}

// ownedMessage loads a message and checks that user wrote it.
// Status notices are system generated and belong to nobody.
func (s *ChatService) ownedMessage(user string, id uuid.UUID) (domain.Message, error) {
	message, err := s.messages.Get(id)
	if err != nil {
		return domain.Message{}, err
	}
	if message.From != user || message.Kind == domain.KindStatus {
		return domain.Message{}, errors.ErrNotMessageOwner
	}
	return message, nil
}

func (s *ChatService) censor(text string) string {
	censored, words := s.moderator.Censor(text)
	if len(words) > 0 {
		observability.MessagesCensored.Inc()
	}
	return censored
}
