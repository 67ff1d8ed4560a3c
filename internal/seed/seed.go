package seed

import (
	"context"
	"fmt"

	"carbonpay/internal/catalog"
	"carbonpay/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply loads the dataset into the catalog tables. It is idempotent via ON CONFLICT
// and runs in a single transaction.
func Apply(ctx context.Context, pool *pgxpool.Pool, data catalog.Dataset) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("validate dataset: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range data.Projects {
		if err := upsertProject(ctx, tx, p); err != nil {
			return fmt.Errorf("upsert project %s: %w", p.ID, err)
		}
	}
	for _, d := range data.Details {
		if err := upsertDetails(ctx, tx, d); err != nil {
			return fmt.Errorf("upsert details %s: %w", d.ID, err)
		}
	}
	for _, c := range data.Credits {
		if err := upsertCredit(ctx, tx, c); err != nil {
			return fmt.Errorf("upsert credit %s: %w", c.ID, err)
		}
	}
	for _, e := range data.Emissions {
		if err := upsertEmission(ctx, tx, e); err != nil {
			return fmt.Errorf("upsert emission %s: %w", e.ID, err)
		}
	}
	for _, o := range data.RecentOffsets {
		if err := upsertRecentOffset(ctx, tx, o); err != nil {
			return fmt.Errorf("upsert recent offset %s: %w", o.Source, err)
		}
	}
	if err := upsertWallet(ctx, tx, data.Wallet); err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}

	return tx.Commit(ctx)
}

func upsertProject(ctx context.Context, tx pgx.Tx, p domain.Project) error {
	const q = `
INSERT INTO projects (id, name, type, location, image, price_per_ton, total_capacity, available_capacity, code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    type = EXCLUDED.type,
    location = EXCLUDED.location,
    image = EXCLUDED.image,
    price_per_ton = EXCLUDED.price_per_ton,
    total_capacity = EXCLUDED.total_capacity,
    available_capacity = EXCLUDED.available_capacity,
    code = EXCLUDED.code
`
	_, err := tx.Exec(ctx, q, p.ID, p.Name, string(p.Type), p.Location, p.Image, p.PricePerTon, p.TotalCapacity, p.AvailableCapacity, p.Code)
	return err
}

func upsertDetails(ctx context.Context, tx pgx.Tx, d domain.ProjectDetails) error {
	const q = `
INSERT INTO project_details (project_id, registry_id, type, credits_issued, credits_available, vintage_year,
    certification, verifier, methodology, token_id, last_transaction, co2_reduction, documentation, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (project_id) DO UPDATE
SET registry_id = EXCLUDED.registry_id,
    type = EXCLUDED.type,
    credits_issued = EXCLUDED.credits_issued,
    credits_available = EXCLUDED.credits_available,
    vintage_year = EXCLUDED.vintage_year,
    certification = EXCLUDED.certification,
    verifier = EXCLUDED.verifier,
    methodology = EXCLUDED.methodology,
    token_id = EXCLUDED.token_id,
    last_transaction = EXCLUDED.last_transaction,
    co2_reduction = EXCLUDED.co2_reduction,
    documentation = EXCLUDED.documentation,
    description = EXCLUDED.description
`
	_, err := tx.Exec(ctx, q, d.ID, d.RegistryID, d.Type, d.CreditsIssued, d.CreditsAvailable, d.VintageYear,
		d.Certification, d.Verifier, d.Methodology, d.TokenID, d.LastTransaction, d.CO2Reduction, d.Documentation, d.Description)
	return err
}

func upsertCredit(ctx context.Context, tx pgx.Tx, c domain.CarbonCredit) error {
	const q = `
INSERT INTO carbon_credits (id, project_id, total_amount, available_amount, used_amount, purchase_date)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET project_id = EXCLUDED.project_id,
    total_amount = EXCLUDED.total_amount,
    available_amount = EXCLUDED.available_amount,
    used_amount = EXCLUDED.used_amount,
    purchase_date = EXCLUDED.purchase_date
`
	_, err := tx.Exec(ctx, q, c.ID, c.ProjectID, c.TotalAmount, c.AvailableAmount, c.UsedAmount, c.PurchaseDate)
	return err
}

func upsertEmission(ctx context.Context, tx pgx.Tx, e domain.Emission) error {
	const q = `
INSERT INTO emissions (id, source, amount, date, "offset", project_name)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET source = EXCLUDED.source,
    amount = EXCLUDED.amount,
    date = EXCLUDED.date,
    "offset" = EXCLUDED."offset",
    project_name = EXCLUDED.project_name
`
	_, err := tx.Exec(ctx, q, e.ID, e.Source, e.Amount, e.Date, e.Offset, e.ProjectName)
	return err
}

func upsertRecentOffset(ctx context.Context, tx pgx.Tx, o domain.RecentOffset) error {
	const q = `
INSERT INTO recent_offsets (source, project, amount, date)
VALUES ($1, $2, $3, $4)
ON CONFLICT (source, project, date) DO UPDATE SET amount = EXCLUDED.amount
`
	_, err := tx.Exec(ctx, q, o.Source, o.Project, o.Amount, o.Date)
	return err
}

func upsertWallet(ctx context.Context, tx pgx.Tx, w domain.Wallet) error {
	const q = `
INSERT INTO wallets (address, balance)
VALUES ($1, $2)
ON CONFLICT (address) DO UPDATE SET balance = EXCLUDED.balance
`
	_, err := tx.Exec(ctx, q, w.Address, w.Balance)
	return err
}
