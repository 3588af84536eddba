package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hairwise/hairwise-backend/internal/models"
	pgrepo "github.com/hairwise/hairwise-backend/internal/repositories/postgres"
)

func TestAdminRepo_CountsAndOverview(t *testing.T) {
	db := openTestDB(t)
	profiles := pgrepo.NewProfileRepo(db)
	convos := pgrepo.NewConversationRepo(db)
	msgs := pgrepo.NewMessageRepo(db)
	admin := pgrepo.NewAdminRepo(db)
	ctx := context.Background()

	seedProfile(t, profiles, "alice", models.RoleUser)
	seedProfile(t, profiles, "bob", models.RoleAdmin)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	conv := newConversation("alice", "alice asks", base)
	require.NoError(t, convos.Insert(ctx, conv))
	for i, content := range []string{"q", "a", "q2"} {
		require.NoError(t, msgs.Insert(ctx, &models.Message{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			Role:           models.MessageRoleUser,
			Content:        content,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}))
	}
	empty := newConversation("bob", "bob asks", base.Add(time.Hour))
	require.NoError(t, convos.Insert(ctx, empty))

	stats, err := admin.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.TotalConversations)
	assert.EqualValues(t, 3, stats.TotalMessages)

	users, err := admin.ListProfiles(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	overview, err := admin.ListConversations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, overview, 2)
	// newest conversation first
	assert.Equal(t, empty.ID, overview[0].ID)
	assert.Equal(t, "bob@example.com", overview[0].OwnerEmail)
	assert.EqualValues(t, 0, overview[0].MessageCount)
	assert.Equal(t, conv.ID, overview[1].ID)
	assert.EqualValues(t, 3, overview[1].MessageCount)
}
