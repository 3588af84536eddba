package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hairwise/hairwise-backend/internal/livesync"
	"github.com/hairwise/hairwise-backend/internal/models"
	"github.com/hairwise/hairwise-backend/internal/services"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

func newConversationService(convos *fakeConversationRepo, msgs *fakeMessageRepo, broker livesync.Broker) services.ConversationService {
	log, _ := logtest.NewNullLogger()
	return services.NewConversationService(convos, msgs, broker, log)
}

func TestDeriveTitle(t *testing.T) {
	exactly50 := strings.Repeat("a", 50)
	assert.Equal(t, exactly50, services.DeriveTitle(exactly50))

	over := strings.Repeat("a", 51)
	assert.Equal(t, strings.Repeat("a", 50)+"...", services.DeriveTitle(over))

	assert.Equal(t, "short", services.DeriveTitle("short"))

	// rune counting: 51 multibyte characters still truncate at 50 runes
	multibyte := strings.Repeat("ü", 51)
	got := services.DeriveTitle(multibyte)
	assert.Equal(t, strings.Repeat("ü", 50)+"...", got)
}

func TestCreate_SetsTitleAndTimestamps(t *testing.T) {
	convos := newFakeConversationRepo()
	svc := newConversationService(convos, newFakeMessageRepo(), livesync.NewMemoryBroker())

	before := time.Now().UTC()
	conv, err := svc.Create(context.Background(), "owner-1", "do I need a clarifying shampoo?")
	require.NoError(t, err)

	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, "owner-1", conv.UserID)
	assert.Equal(t, "do I need a clarifying shampoo?", conv.Title)
	assert.False(t, conv.CreatedAt.Before(before))
	assert.Equal(t, conv.CreatedAt, conv.UpdatedAt)
}

func TestCreate_EmptyInputs(t *testing.T) {
	svc := newConversationService(newFakeConversationRepo(), newFakeMessageRepo(), nil)

	_, err := svc.Create(context.Background(), "", "hello")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Create(context.Background(), "owner-1", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCountMessages_TracksAppends(t *testing.T) {
	convos := newFakeConversationRepo()
	svc := newConversationService(convos, newFakeMessageRepo(), nil)

	conv, err := svc.Create(context.Background(), "owner-1", "hello")
	require.NoError(t, err)

	n, err := svc.CountMessages(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Append(context.Background(), conv.ID, models.MessageRoleUser, "hello")
	require.NoError(t, err)
	_, err = svc.Append(context.Background(), conv.ID, models.MessageRoleAssistant, "hi there")
	require.NoError(t, err)

	n, err = svc.CountMessages(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.CountMessages(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCreate_BackendFailureIsUnavailable(t *testing.T) {
	convos := newFakeConversationRepo()
	convos.insertErr = errors.New("connection refused")
	svc := newConversationService(convos, newFakeMessageRepo(), nil)

	_, err := svc.Create(context.Background(), "owner-1", "hello")
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestCreate_PublishesInsertEvent(t *testing.T) {
	broker := livesync.NewMemoryBroker()
	svc := newConversationService(newFakeConversationRepo(), newFakeMessageRepo(), broker)
	ctx := context.Background()

	sub, err := broker.Subscribe(ctx, livesync.OwnerScope("owner-1"))
	require.NoError(t, err)
	defer sub.Close()

	_, err = svc.Create(ctx, "owner-1", "first message")
	require.NoError(t, err)

	select {
	case e := <-sub.C():
		assert.Equal(t, livesync.KindInsert, e.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected a conversation-changed event")
	}
}

func TestAppend_Validation(t *testing.T) {
	svc := newConversationService(newFakeConversationRepo(), newFakeMessageRepo(), nil)
	ctx := context.Background()

	_, err := svc.Append(ctx, "conv-1", models.MessageRoleUser, "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Append(ctx, "conv-1", models.MessageRole("system"), "hi")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestAppend_UnknownConversation(t *testing.T) {
	svc := newConversationService(newFakeConversationRepo(), newFakeMessageRepo(), nil)

	_, err := svc.Append(context.Background(), "missing", models.MessageRoleUser, "hello")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestAppend_OrderAndTimestampBump(t *testing.T) {
	convos := newFakeConversationRepo()
	msgs := newFakeMessageRepo()
	svc := newConversationService(convos, msgs, livesync.NewMemoryBroker())
	ctx := context.Background()

	conv, err := svc.Create(ctx, "owner-1", "ordering check")
	require.NoError(t, err)

	// backdate so the append visibly bumps updated_at
	convos.rows[conv.ID].UpdatedAt = conv.UpdatedAt.Add(-time.Hour)

	_, err = svc.Append(ctx, conv.ID, models.MessageRoleUser, "A")
	require.NoError(t, err)
	_, err = svc.Append(ctx, conv.ID, models.MessageRoleAssistant, "B")
	require.NoError(t, err)

	rows, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Content)
	assert.Equal(t, "B", rows[1].Content)

	got, err := svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(conv.UpdatedAt.Add(-time.Hour)))
}

func TestAppend_TouchFailureStillReturnsMessage(t *testing.T) {
	convos := newFakeConversationRepo()
	svc := newConversationService(convos, newFakeMessageRepo(), nil)
	ctx := context.Background()

	conv, err := svc.Create(ctx, "owner-1", "stale is fine")
	require.NoError(t, err)

	convos.touchErr = errors.New("timeout")
	msg, err := svc.Append(ctx, conv.ID, models.MessageRoleUser, "still stored")
	require.NoError(t, err)
	assert.Equal(t, "still stored", msg.Content)
}

func TestListConversations_RecencyAcrossConversations(t *testing.T) {
	convos := newFakeConversationRepo()
	svc := newConversationService(convos, newFakeMessageRepo(), nil)
	ctx := context.Background()

	x, err := svc.Create(ctx, "owner-1", "conversation X")
	require.NoError(t, err)
	y, err := svc.Create(ctx, "owner-1", "conversation Y")
	require.NoError(t, err)

	// make Y older, then touch X via an append
	convos.rows[x.ID].UpdatedAt = time.Now().UTC().Add(-2 * time.Hour)
	convos.rows[y.ID].UpdatedAt = time.Now().UTC().Add(-1 * time.Hour)

	_, err = svc.Append(ctx, x.ID, models.MessageRoleUser, "bump")
	require.NoError(t, err)

	rows, err := svc.ListConversations(ctx, "owner-1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, x.ID, rows[0].ID)
	assert.Equal(t, y.ID, rows[1].ID)
}
