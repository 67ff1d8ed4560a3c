package catalog

import (
	"context"

	"carbonpay/internal/domain"
)

// Repository is read access to the offset catalog.
type Repository interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetProjectDetails(ctx context.Context, id string) (*domain.ProjectDetails, error)
	ListCredits(ctx context.Context) ([]domain.CarbonCredit, error)
	ListEmissions(ctx context.Context) ([]domain.Emission, error)
	ListRecentOffsets(ctx context.Context) ([]domain.RecentOffset, error)
	Wallet(ctx context.Context) (domain.Wallet, error)
}
