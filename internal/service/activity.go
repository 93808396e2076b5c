package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/transport"
	"github.com/skdm/shopkart/internal/util"
)

// ActivityService records where users are in the cart/checkout funnel and
// serves the admin dashboard listing.
type ActivityService struct {
	Repo     *repository.ActivityRepo
	validate *validator.Validate
}

func NewActivityService(repo *repository.ActivityRepo) *ActivityService {
	return &ActivityService{Repo: repo, validate: validator.New()}
}

// Track upserts the user's funnel position. Returns true when a new row was
// created rather than updated.
func (s *ActivityService) Track(ctx context.Context, req transport.TrackActivityRequest) (bool, error) {
	if err := s.validate.Struct(req); err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	exists, err := s.Repo.UserExists(ctx, req.UserID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: user %d", ErrNotFound, req.UserID)
	}

	ids, err := json.Marshal(req.ProductIDs)
	if err != nil {
		return false, err
	}
	return s.Repo.Upsert(ctx, req.UserID, string(ids), req.CurrentStep)
}

func (s *ActivityService) List(ctx context.Context, page, limit int) ([]repository.ActivityWithUser, transport.Pagination, error) {
	offset, limit := util.Calculate(page, limit)
	rows, total, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, transport.Pagination{}, err
	}
	return rows, paginationMeta(total, page, limit), nil
}
