package catalog

import (
	"context"

	"giftshop/internal/domain"
	productrepo "giftshop/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	return s.repo.ListActive(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCategories(ctx)
}
