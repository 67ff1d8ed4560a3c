package catalog

import (
	"context"

	"carbonpay/internal/catalog"
	"carbonpay/internal/domain"
)

type staticRepo struct {
	data catalog.Dataset
}

// NewStatic serves a loaded dataset from memory. Every call returns copies.
func NewStatic(data catalog.Dataset) Repository {
	return &staticRepo{data: data}
}

func (r *staticRepo) ListProjects(_ context.Context) ([]domain.Project, error) {
	return append([]domain.Project(nil), r.data.Projects...), nil
}

func (r *staticRepo) GetProject(_ context.Context, id string) (*domain.Project, error) {
	for _, p := range r.data.Projects {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *staticRepo) GetProjectDetails(_ context.Context, id string) (*domain.ProjectDetails, error) {
	for _, d := range r.data.Details {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *staticRepo) ListCredits(_ context.Context) ([]domain.CarbonCredit, error) {
	return append([]domain.CarbonCredit(nil), r.data.Credits...), nil
}

func (r *staticRepo) ListEmissions(_ context.Context) ([]domain.Emission, error) {
	return append([]domain.Emission(nil), r.data.Emissions...), nil
}

func (r *staticRepo) ListRecentOffsets(_ context.Context) ([]domain.RecentOffset, error) {
	return append([]domain.RecentOffset(nil), r.data.RecentOffsets...), nil
}

func (r *staticRepo) Wallet(_ context.Context) (domain.Wallet, error) {
	return r.data.Wallet, nil
}
