package catalog

import (
	"context"
	"errors"

	"carbonpay/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// PostgresRepository is the catalog backed by the seeded tables. It also
// accepts emission upserts from the CSV importer.
type PostgresRepository interface {
	Repository
	UpsertEmission(ctx context.Context, e domain.Emission) error
}

func NewPostgres(pool *pgxpool.Pool) PostgresRepository {
	return &postgresRepo{pool: pool}
}

const projectColumns = `id, name, type, location, image, price_per_ton::float8, total_capacity, available_capacity, code`

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	var typ string
	err := row.Scan(&p.ID, &p.Name, &typ, &p.Location, &p.Image, &p.PricePerTon, &p.TotalCapacity, &p.AvailableCapacity, &p.Code)
	p.Type = domain.ProjectType(typ)
	return p, err
}

func (r *postgresRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetProjectDetails(ctx context.Context, id string) (*domain.ProjectDetails, error) {
	const q = `
SELECT p.id, p.name, d.registry_id, p.location, d.type, d.credits_issued, d.credits_available,
       d.vintage_year, d.certification, d.verifier, d.methodology, d.token_id, d.last_transaction,
       d.co2_reduction, d.documentation, p.image, d.description, p.price_per_ton::float8
FROM project_details d
JOIN projects p ON p.id = d.project_id
WHERE d.project_id = $1
`
	var d domain.ProjectDetails
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&d.ID, &d.Name, &d.RegistryID, &d.Location, &d.Type, &d.CreditsIssued, &d.CreditsAvailable,
		&d.VintageYear, &d.Certification, &d.Verifier, &d.Methodology, &d.TokenID, &d.LastTransaction,
		&d.CO2Reduction, &d.Documentation, &d.Image, &d.Description, &d.PricePerTon,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *postgresRepo) ListCredits(ctx context.Context) ([]domain.CarbonCredit, error) {
	const q = `
SELECT id, project_id, total_amount, available_amount, used_amount, purchase_date
FROM carbon_credits
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CarbonCredit
	for rows.Next() {
		var c domain.CarbonCredit
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.TotalAmount, &c.AvailableAmount, &c.UsedAmount, &c.PurchaseDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListEmissions(ctx context.Context) ([]domain.Emission, error) {
	const q = `
SELECT id, source, amount, date, "offset", project_name
FROM emissions
ORDER BY date DESC, id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Emission
	for rows.Next() {
		var e domain.Emission
		if err := rows.Scan(&e.ID, &e.Source, &e.Amount, &e.Date, &e.Offset, &e.ProjectName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListRecentOffsets(ctx context.Context) ([]domain.RecentOffset, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, project, amount, date FROM recent_offsets ORDER BY date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecentOffset
	for rows.Next() {
		var o domain.RecentOffset
		if err := rows.Scan(&o.Source, &o.Project, &o.Amount, &o.Date); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Wallet(ctx context.Context) (domain.Wallet, error) {
	var w domain.Wallet
	err := r.pool.QueryRow(ctx, `SELECT address, balance::float8 FROM wallets ORDER BY address LIMIT 1`).Scan(&w.Address, &w.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Wallet{}, domain.ErrNotFound
		}
		return domain.Wallet{}, err
	}
	return w, nil
}

func (r *postgresRepo) UpsertEmission(ctx context.Context, e domain.Emission) error {
	if err := e.Validate(); err != nil {
		return err
	}
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
	_, err := r.pool.Exec(ctx, q, e.ID, e.Source, e.Amount, e.Date, e.Offset, e.ProjectName)
	return err
}
