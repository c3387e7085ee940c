package chat

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/payloads"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	conversations map[uuid.UUID]*models.Conversation
	byApplication map[uuid.UUID]*models.Conversation
	byPair        *models.Conversation
	messages      []models.Message
	createdMsg    *models.Message
	touchedAt     *time.Time
	readMarked    []uuid.UUID
}

func newChatStubRepo(convs ...*models.Conversation) *stubRepo {
	byID := make(map[uuid.UUID]*models.Conversation, len(convs))
	byApp := make(map[uuid.UUID]*models.Conversation, len(convs))
	for _, c := range convs {
		byID[c.ID] = c
		byApp[c.ApplicationID] = c
	}
	return &stubRepo{conversations: byID, byApplication: byApp}
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	if conv, ok := s.conversations[id]; ok {
		return conv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*models.Conversation, error) {
	if conv, ok := s.byApplication[applicationID]; ok {
		return conv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByParticipants(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	if s.byPair != nil {
		match := (s.byPair.ProviderID == userA && s.byPair.CreatorID == userB) ||
			(s.byPair.ProviderID == userB && s.byPair.CreatorID == userA)
		if match {
			return s.byPair, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error) {
	return []ConversationListItem{}, nil
}

func (s *stubRepo) CreateMessageTx(tx *gorm.DB, msg *models.Message) error {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	s.createdMsg = msg
	return nil
}

func (s *stubRepo) TouchLastMessageTx(tx *gorm.DB, conversationID uuid.UUID, at time.Time) error {
	s.touchedAt = &at
	return nil
}

func (s *stubRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	return s.messages, nil
}

func (s *stubRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	s.readMarked = append(s.readMarked, conversationID)
	return nil
}

type stubApplications struct {
	app *models.Application
}

func (s *stubApplications) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	if s.app == nil || s.app.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.app, nil
}

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubCleaner struct {
	deleted [][2]uuid.UUID
}

func (s *stubCleaner) DeleteForConversationTx(tx *gorm.DB, recipientID, conversationID uuid.UUID) error {
	s.deleted = append(s.deleted, [2]uuid.UUID{recipientID, conversationID})
	return nil
}

type stubEmitter struct {
	emitted []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.emitted = append(s.emitted, event)
	return nil
}

type fixture struct {
	svc     Service
	repo    *stubRepo
	cleaner *stubCleaner
	emitter *stubEmitter
}

func newFixture(t *testing.T, repo *stubRepo, apps *stubApplications, users *stubUsers) fixture {
	t.Helper()
	cleaner := &stubCleaner{}
	emitter := &stubEmitter{}
	svc, err := NewService(ServiceParams{
		DB:            stubTx{},
		Repo:          repo,
		Applications:  apps,
		Users:         users,
		Notifications: cleaner,
		Outbox:        emitter,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return fixture{svc: svc, repo: repo, cleaner: cleaner, emitter: emitter}
}

func conversation() *models.Conversation {
	return &models.Conversation{
		ID:            uuid.New(),
		ApplicationID: uuid.New(),
		ProviderID:    uuid.New(),
		CreatorID:     uuid.New(),
		CreatedAt:     time.Now(),
	}
}

func TestSendMessagePersistsAndEmits(t *testing.T) {
	conv := conversation()
	sender := &models.User{ID: conv.CreatorID, DisplayName: "Lena"}
	repo := newChatStubRepo(conv)
	f := newFixture(t, repo, &stubApplications{}, &stubUsers{user: sender})

	tag := "temp-1"
	dto, err := f.svc.SendMessage(context.Background(), conv.CreatorID, conv.ID, SendMessageInput{Content: "hello", ClientTag: &tag})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if dto.Content != "hello" || dto.SenderID != conv.CreatorID {
		t.Fatalf("unexpected message %+v", dto)
	}
	if dto.ClientTag == nil || *dto.ClientTag != "temp-1" {
		t.Fatal("client tag must round-trip")
	}
	if repo.touchedAt == nil {
		t.Fatal("conversation recency must be bumped")
	}
	if len(f.cleaner.deleted) != 1 || f.cleaner.deleted[0] != [2]uuid.UUID{conv.CreatorID, conv.ID} {
		t.Fatalf("sender's chat notifications must be cleared, got %v", f.cleaner.deleted)
	}
	if len(f.emitter.emitted) != 1 {
		t.Fatalf("expected one event, got %d", len(f.emitter.emitted))
	}
	payload, ok := f.emitter.emitted[0].Data.(payloads.ChatMessageSentEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", f.emitter.emitted[0].Data)
	}
	if payload.RecipientUserID != conv.ProviderID {
		t.Fatal("event must target the other participant")
	}
	if payload.SenderName != "Lena" {
		t.Fatalf("expected sender name, got %q", payload.SenderName)
	}
}

func TestSendMessageByNonParticipantForbidden(t *testing.T) {
	conv := conversation()
	f := newFixture(t, newChatStubRepo(conv), &stubApplications{}, &stubUsers{})

	_, err := f.svc.SendMessage(context.Background(), uuid.New(), conv.ID, SendMessageInput{Content: "hi"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestSendEmptyMessageRejected(t *testing.T) {
	conv := conversation()
	f := newFixture(t, newChatStubRepo(conv), &stubApplications{}, &stubUsers{})

	_, err := f.svc.SendMessage(context.Background(), conv.CreatorID, conv.ID, SendMessageInput{Content: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestTruncatePreviewKeepsRuneBoundaries(t *testing.T) {
	short := "hallo"
	if got := truncatePreview(short); got != short {
		t.Fatalf("short content must pass through, got %q", got)
	}

	// A two-byte rune straddling the limit must be dropped whole, not split.
	straddling := strings.Repeat("a", previewLimit-1) + "é"
	got := truncatePreview(straddling)
	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid utf-8: %q", got)
	}
	if got != strings.Repeat("a", previewLimit-1) {
		t.Fatalf("expected the straddling rune dropped, got %q", got)
	}

	long := strings.Repeat("é", previewLimit)
	got = truncatePreview(long)
	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid utf-8: %q", got)
	}
	if len(got) > previewLimit {
		t.Fatalf("preview exceeds limit: %d bytes", len(got))
	}
}

func TestOpenConversationMarksRead(t *testing.T) {
	conv := conversation()
	repo := newChatStubRepo(conv)
	repo.messages = []models.Message{
		{ID: uuid.New(), ConversationID: conv.ID, SenderID: conv.ProviderID, Content: "hi"},
	}
	f := newFixture(t, repo, &stubApplications{}, &stubUsers{})

	messages, err := f.svc.OpenConversation(context.Background(), conv.CreatorID, conv.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if len(repo.readMarked) != 1 || repo.readMarked[0] != conv.ID {
		t.Fatal("opening must mark the thread read")
	}
	if len(f.cleaner.deleted) != 1 {
		t.Fatal("opening must clear the reader's chat notifications")
	}
}

func TestResolveByApplicationDirectMatch(t *testing.T) {
	conv := conversation()
	f := newFixture(t, newChatStubRepo(conv), &stubApplications{}, &stubUsers{})

	dto, err := f.svc.ResolveByApplication(context.Background(), conv.CreatorID, conv.ApplicationID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dto.ID != conv.ID {
		t.Fatal("expected the conversation for the application")
	}
}

func TestResolveByApplicationFallsBackToParticipantPair(t *testing.T) {
	conv := conversation()
	olderApp := &models.Application{
		ID:         uuid.New(),
		CreatorID:  conv.CreatorID,
		ProviderID: conv.ProviderID,
		Status:     enums.ApplicationStatusAccepted,
	}
	repo := newChatStubRepo(conv)
	repo.byPair = conv
	f := newFixture(t, repo, &stubApplications{app: olderApp}, &stubUsers{})

	dto, err := f.svc.ResolveByApplication(context.Background(), conv.ProviderID, olderApp.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dto.ID != conv.ID {
		t.Fatal("pair fallback must find the existing conversation")
	}
}

func TestResolveByApplicationNoMatch(t *testing.T) {
	conv := conversation()
	f := newFixture(t, newChatStubRepo(conv), &stubApplications{}, &stubUsers{})

	_, err := f.svc.ResolveByApplication(context.Background(), conv.CreatorID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestResolveByApplicationNonParticipantForbidden(t *testing.T) {
	conv := conversation()
	f := newFixture(t, newChatStubRepo(conv), &stubApplications{}, &stubUsers{})

	_, err := f.svc.ResolveByApplication(context.Background(), uuid.New(), conv.ApplicationID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}
