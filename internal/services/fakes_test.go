package services_test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/hairwise/hairwise-backend/internal/models"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

// In-memory stand-ins for the gorm repos. Error fields let tests force a
// backend failure on a specific call.

type fakeConversationRepo struct {
	mu        sync.Mutex
	rows      map[string]*models.Conversation
	insertErr error
	touchErr  error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{rows: make(map[string]*models.Conversation)}
}

func (f *fakeConversationRepo) Insert(_ context.Context, c *models.Conversation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversationRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Conversation
	for _, c := range f.rows {
		if c.UserID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeConversationRepo) Touch(_ context.Context, id string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.UpdatedAt = at
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	rows      []models.Message
	insertErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Insert(_ context.Context, m *models.Message) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.rows {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) CountByConversation(_ context.Context, conversationID string) (int64, error) {
	rows, _ := f.ListByConversation(nil, conversationID)
	return int64(len(rows)), nil
}

type fakeProfileRepo struct {
	mu      sync.Mutex
	rows    map[string]*models.Profile
	getErr  error
	roleErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) EnsureExists(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ID]; ok {
		return nil
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) UpdateAttributes(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[p.ID]
	if !ok {
		return utils.ErrNotFound
	}
	// role deliberately untouched, mirroring the column allow-list
	existing.FullName = p.FullName
	existing.HairType = p.HairType
	existing.ScalpCondition = p.ScalpCondition
	existing.Concerns = p.Concerns
	existing.UpdatedAt = p.UpdatedAt
	return nil
}

func (f *fakeProfileRepo) RoleByID(_ context.Context, id string) (models.UserRole, error) {
	if f.roleErr != nil {
		return "", f.roleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return "", utils.ErrNotFound
	}
	return p.Role, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	dels []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = b
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		f.dels = append(f.dels, k)
	}
	return nil
}
