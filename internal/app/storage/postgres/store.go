package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/bizledger/billingd/internal/app/domain/company"
	"github.com/bizledger/billingd/internal/app/domain/industry"
	"github.com/bizledger/billingd/internal/app/domain/invoice"
	"github.com/bizledger/billingd/internal/app/storage"
	apperr "github.com/bizledger/billingd/internal/errors"
)

// Postgres error codes the store translates into the taxonomy. The schema's
// constraints are the source of truth for uniqueness and references; the
// codes below are how violations surface through lib/pq.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.CompanyStore = (*Store)(nil)
var _ storage.InvoiceStore = (*Store)(nil)
var _ storage.IndustryStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// --- CompanyStore -----------------------------------------------------------

func (s *Store) CreateCompany(ctx context.Context, c company.Company) (company.Company, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO companies (code, name, description)
		VALUES ($1, $2, $3)
		RETURNING code, name, description
	`, c.Code, c.Name, c.Description)

	var created company.Company
	if err := row.Scan(&created.Code, &created.Name, &created.Description); err != nil {
		if isUniqueViolation(err) {
			return company.Company{}, apperr.Conflict("company code %s already exists", c.Code)
		}
		return company.Company{}, err
	}
	return created, nil
}

func (s *Store) UpdateCompany(ctx context.Context, c company.Company) (company.Company, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE companies
		SET name = $2, description = $3
		WHERE code = $1
		RETURNING code, name, description
	`, c.Code, c.Name, c.Description)

	var updated company.Company
	if err := row.Scan(&updated.Code, &updated.Name, &updated.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return company.Company{}, apperr.NotFound("code: %s not found", c.Code)
		}
		return company.Company{}, err
	}
	return updated, nil
}

func (s *Store) GetCompany(ctx context.Context, code string) (company.Company, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, description
		FROM companies
		WHERE code = $1
	`, code)

	var c company.Company
	if err := row.Scan(&c.Code, &c.Name, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return company.Company{}, apperr.NotFound("code: %s not found", code)
		}
		return company.Company{}, err
	}
	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]company.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name FROM companies
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []company.Summary{}
	for rows.Next() {
		var c company.Summary
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) DeleteCompany(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM companies WHERE code = $1
	`, code)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperr.NotFound("code: %s not found", code)
	}
	return nil
}

func (s *Store) ListCompanyInvoices(ctx context.Context, code string) ([]invoice.Ref, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, comp_code
		FROM invoices
		WHERE comp_code = $1
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []invoice.Ref{}
	for rows.Next() {
		var ref invoice.Ref
		if err := rows.Scan(&ref.ID, &ref.CompCode); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}

func (s *Store) ListCompanyIndustries(ctx context.Context, code string) ([]industry.Industry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ind.code, ind.industry
		FROM industries ind
		INNER JOIN company_industry ci ON ind.code = ci.ind_code
		WHERE ci.comp_code = $1
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []industry.Industry{}
	for rows.Next() {
		var ind industry.Industry
		if err := rows.Scan(&ind.Code, &ind.Name); err != nil {
			return nil, err
		}
		result = append(result, ind)
	}
	return result, rows.Err()
}

// --- InvoiceStore -----------------------------------------------------------

func (s *Store) CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO invoices (comp_code, amt)
		VALUES ($1, $2)
		RETURNING id, comp_code, amt, paid, add_date, paid_date
	`, inv.CompCode, inv.Amt)

	created, err := scanInvoice(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return invoice.Invoice{}, apperr.NotFound("comp_code: %s not found", inv.CompCode)
		}
		return invoice.Invoice{}, err
	}
	return created, nil
}

func (s *Store) UpdateInvoiceAmount(ctx context.Context, id int64, amt float64) (invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE invoices
		SET amt = $2
		WHERE id = $1
		RETURNING id, comp_code, amt, paid, add_date, paid_date
	`, id, amt)

	updated, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.Invoice{}, apperr.NotFound("invoice id: %d not found", id)
		}
		return invoice.Invoice{}, err
	}
	return updated, nil
}

func (s *Store) GetInvoiceJoined(ctx context.Context, id int64) (invoice.JoinedRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT invoices.id, invoices.comp_code, invoices.amt, invoices.paid,
		       invoices.add_date, invoices.paid_date,
		       companies.name, companies.description
		FROM invoices
		INNER JOIN companies ON companies.code = invoices.comp_code
		WHERE invoices.id = $1
	`, id)

	var (
		joined   invoice.JoinedRow
		paidDate sql.NullTime
	)
	err := row.Scan(
		&joined.ID, &joined.CompCode, &joined.Amt, &joined.Paid,
		&joined.AddDate, &paidDate,
		&joined.CompanyName, &joined.CompanyDescription,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.JoinedRow{}, apperr.NotFound("invoice id: %d not found", id)
		}
		return invoice.JoinedRow{}, err
	}
	if paidDate.Valid {
		t := paidDate.Time.UTC()
		joined.PaidDate = &t
	}
	return joined, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]invoice.Ref, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, comp_code FROM invoices
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []invoice.Ref{}
	for rows.Next() {
		var ref invoice.Ref
		if err := rows.Scan(&ref.ID, &ref.CompCode); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}

func (s *Store) DeleteInvoice(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM invoices WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperr.NotFound("invoice id: %d not found", id)
	}
	return nil
}

// --- IndustryStore ----------------------------------------------------------

func (s *Store) CreateIndustry(ctx context.Context, ind industry.Industry) (industry.Industry, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO industries (code, industry)
		VALUES ($1, $2)
		RETURNING code, industry
	`, ind.Code, ind.Name)

	var created industry.Industry
	if err := row.Scan(&created.Code, &created.Name); err != nil {
		if isUniqueViolation(err) {
			return industry.Industry{}, apperr.Conflict("industry code %s already exists", ind.Code)
		}
		return industry.Industry{}, err
	}
	return created, nil
}

func (s *Store) ListIndustryMemberships(ctx context.Context) ([]industry.MembershipRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ind.industry, ind.code, ci.comp_code
		FROM industries ind
		LEFT JOIN company_industry ci ON ind.code = ci.ind_code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []industry.MembershipRow{}
	for rows.Next() {
		var (
			row      industry.MembershipRow
			compCode sql.NullString
		)
		if err := rows.Scan(&row.Name, &row.Code, &compCode); err != nil {
			return nil, err
		}
		if compCode.Valid {
			row.CompCode = &compCode.String
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *Store) CreateLink(ctx context.Context, link industry.Link) (industry.Link, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO company_industry (comp_code, ind_code)
		VALUES ($1, $2)
		RETURNING comp_code, ind_code
	`, link.CompCode, link.IndCode)

	var created industry.Link
	if err := row.Scan(&created.CompCode, &created.IndCode); err != nil {
		if isForeignKeyViolation(err) {
			return industry.Link{}, apperr.NotFound("company or industry not found")
		}
		if isUniqueViolation(err) {
			return industry.Link{}, apperr.Conflict("company %s already linked to industry %s", link.CompCode, link.IndCode)
		}
		return industry.Link{}, err
	}
	return created, nil
}

func scanInvoice(row *sql.Row) (invoice.Invoice, error) {
	var (
		inv      invoice.Invoice
		paidDate sql.NullTime
	)
	if err := row.Scan(&inv.ID, &inv.CompCode, &inv.Amt, &inv.Paid, &inv.AddDate, &paidDate); err != nil {
		return invoice.Invoice{}, err
	}
	if paidDate.Valid {
		t := paidDate.Time.UTC()
		inv.PaidDate = &t
	}
	return inv, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}
