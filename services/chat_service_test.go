package services

import (
	"batepapo/domain"
	"batepapo/errors"
	"batepapo/mocks"
	"batepapo/moderation"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newChatFixture(t *testing.T, words ...string) (fixture, *PresenceService, *ChatService) {
	t.Helper()
	f := newFixture(t)
	moderator, err := moderation.NewModerator(words, '*', slog.Default())
	require.NoError(t, err)
	presence := NewPresenceService(slog.Default(), f.participants, timeout, 1, f.clock.Now)
	chat := NewChatService(slog.Default(), f.participants, f.messages, moderator, f.clock.Now)
	return f, presence, chat
}

func TestChat_PostMessage_UnknownSender(t *testing.T) {
	req := require.New(t)
	_, _, chat := newChatFixture(t)

	_, err := chat.PostMessage(context.Background(), domain.PostMessageCommand{
		From: "Ghost", To: domain.Broadcast, Text: "boo", Kind: domain.KindChat,
	})

	req.ErrorIs(err, errors.ErrUnknownSender)
}

func TestChat_PostMessage_RejectsStatusKind(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, presence, chat := newChatFixture(t)
	_, err := presence.Join(ctx, "Ana")
	req.NoError(err)

	_, err = chat.PostMessage(ctx, domain.PostMessageCommand{
		From: "Ana", To: domain.Broadcast, Text: domain.LeftText, Kind: domain.KindStatus,
	})

	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestChat_ListMessages_Visibility(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f, presence, chat := newChatFixture(t)
	for _, name := range []string{"Ana", "Bruno", "Carla"} {
		_, err := presence.Join(ctx, name)
		req.NoError(err)
	}

	// Given one public and one private message
	f.clock.SetMillis(1000)
	_, err := chat.PostMessage(ctx, domain.PostMessageCommand{
		From: "Ana", To: domain.Broadcast, Text: "oi gente", Kind: domain.KindChat,
	})
	req.NoError(err)
	f.clock.SetMillis(2000)
	_, err = chat.PostMessage(ctx, domain.PostMessageCommand{
		From: "Ana", To: "Bruno", Text: "segredo", Kind: domain.KindPrivateChat,
	})
	req.NoError(err)

	bruno, err := chat.ListMessages(ctx, "Bruno", 0)
	req.NoError(err)
	carla, err := chat.ListMessages(ctx, "Carla", 0)
	req.NoError(err)

	// Three join notices plus the chat messages
	req.Len(bruno, 5)
	req.Equal("segredo", bruno[4].Text)
	req.Len(carla, 4)
	for _, m := range carla {
		req.NotEqual("segredo", m.Text)
	}

	last, err := chat.ListMessages(ctx, "Bruno", 1)
	req.NoError(err)
	req.Len(last, 1)
	req.Equal("segredo", last[0].Text)

	_, err = chat.ListMessages(ctx, "Bruno", -1)
	req.ErrorIs(err, errors.ErrInvalidLimit)
}

func TestChat_PostMessage_Censors(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, presence, chat := newChatFixture(t, "chato")
	_, err := presence.Join(ctx, "Ana")
	req.NoError(err)

	message, err := chat.PostMessage(ctx, domain.PostMessageCommand{
		From: "Ana", To: domain.Broadcast, Text: "que chato", Kind: domain.KindChat,
	})

	req.NoError(err)
	req.Equal("que *****", message.Text)
}

func TestChat_UpdateAndDeleteMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, presence, chat := newChatFixture(t)
	for _, name := range []string{"Ana", "Bruno"} {
		_, err := presence.Join(ctx, name)
		req.NoError(err)
	}
	posted, err := chat.PostMessage(ctx, domain.PostMessageCommand{
		From: "Ana", To: domain.Broadcast, Text: "oi", Kind: domain.KindChat,
	})
	req.NoError(err)

	// Bruno cannot touch Ana's message
	_, err = chat.UpdateMessage(ctx, domain.UpdateMessageCommand{
		ID: posted.ID, Author: "Bruno", To: domain.Broadcast, Text: "hacked", Kind: domain.KindChat,
	})
	req.ErrorIs(err, errors.ErrNotMessageOwner)
	req.ErrorIs(chat.DeleteMessage(ctx, "Bruno", posted.ID), errors.ErrNotMessageOwner)

	// Ana turns it private
	updated, err := chat.UpdateMessage(ctx, domain.UpdateMessageCommand{
		ID: posted.ID, Author: "Ana", To: "Bruno", Text: "oi Bruno", Kind: domain.KindPrivateChat,
	})
	req.NoError(err)
	req.Equal(posted.ID, updated.ID)
	req.Equal(posted.Time, updated.Time)
	req.Equal(domain.KindPrivateChat, updated.Kind)

	req.NoError(chat.DeleteMessage(ctx, "Ana", posted.ID))
	req.ErrorIs(chat.DeleteMessage(ctx, "Ana", posted.ID), errors.ErrMessageNotFound)
	_, err = chat.UpdateMessage(ctx, domain.UpdateMessageCommand{
		ID: uuid.New(), Author: "Ana", To: domain.Broadcast, Text: "?", Kind: domain.KindChat,
	})
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestChat_StatusNoticesBelongToNobody(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f, presence, chat := newChatFixture(t)
	_, err := presence.Join(ctx, "Ana")
	req.NoError(err)
	notices := f.statusMessages(t, "Ana", domain.JoinedText)
	req.Len(notices, 1)

	err = chat.DeleteMessage(ctx, "Ana", notices[0].ID)

	req.ErrorIs(err, errors.ErrNotMessageOwner)
}

func TestChat_PostMessage_StoreFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	chat := NewChatService(slog.Default(), participants, messages, nil, nil)

	participants.EXPECT().Find("Ana").Return(domain.Participant{Name: "Ana"}, nil)
	messages.EXPECT().Append(gomock.Any()).Return(errors.ErrStore)

	_, err := chat.PostMessage(context.Background(), domain.PostMessageCommand{
		From: "Ana", To: domain.Broadcast, Text: "oi", Kind: domain.KindChat,
	})

	req.ErrorIs(err, errors.ErrStore)
}
