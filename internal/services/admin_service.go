package services

import (
	"context"

	"github.com/hairwise/hairwise-backend/internal/models"
	pgrepo "github.com/hairwise/hairwise-backend/internal/repositories/postgres"
	"github.com/hairwise/hairwise-backend/internal/utils"
)

type AdminService interface {
	Stats(ctx context.Context) (pgrepo.Stats, error)
	ListUsers(ctx context.Context, limit int) ([]models.Profile, error)
	ListConversations(ctx context.Context, limit int) ([]pgrepo.ConversationOverview, error)
}

type adminService struct {
	admin pgrepo.AdminRepo
}

func NewAdminService(admin pgrepo.AdminRepo) AdminService {
	return &adminService{admin: admin}
}

func (s *adminService) Stats(ctx context.Context) (pgrepo.Stats, error) {
	const op = "AdminService.Stats"

	stats, err := s.admin.Counts(ctx)
	if err != nil {
		return pgrepo.Stats{}, utils.E(utils.CodeUnavailable, op, "failed to aggregate stats", err)
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, limit int) ([]models.Profile, error) {
	const op = "AdminService.ListUsers"

	rows, err := s.admin.ListProfiles(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to list users", err)
	}
	return rows, nil
}

func (s *adminService) ListConversations(ctx context.Context, limit int) ([]pgrepo.ConversationOverview, error) {
	const op = "AdminService.ListConversations"

	rows, err := s.admin.ListConversations(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to list conversations", err)
	}
	return rows, nil
}
