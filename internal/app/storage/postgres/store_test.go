package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/bizledger/billingd/internal/app/domain/company"
	"github.com/bizledger/billingd/internal/app/domain/industry"
	"github.com/bizledger/billingd/internal/app/domain/invoice"
	apperr "github.com/bizledger/billingd/internal/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCreateCompany(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO companies").
		WithArgs("acme", "Acme", "maker of things").
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "description"}).
			AddRow("acme", "Acme", "maker of things"))

	created, err := store.CreateCompany(context.Background(), company.Company{
		Code: "acme", Name: "Acme", Description: "maker of things",
	})
	require.NoError(t, err)
	require.Equal(t, "acme", created.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCompanyDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO companies").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateCompany(context.Background(), company.Company{Code: "acme", Name: "Acme"})
	require.Error(t, err)
	se := apperr.GetServiceError(err)
	require.NotNil(t, se)
	require.Equal(t, "conflict", se.Code)
}

func TestGetCompanyNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT code, name, description").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "description"}))

	_, err := store.GetCompany(context.Background(), "ghost")
	require.True(t, errors.Is(err, apperr.NotFound("")), "want not_found, got %v", err)
}

func TestDeleteCompany(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM companies").
		WithArgs("acme").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteCompany(context.Background(), "acme"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCompanyMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM companies").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteCompany(context.Background(), "ghost")
	require.True(t, errors.Is(err, apperr.NotFound("")), "want not_found, got %v", err)
}

func TestCreateInvoiceUnknownCompany(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := store.CreateInvoice(context.Background(), invoice.Invoice{CompCode: "ghost", Amt: 5})
	require.True(t, errors.Is(err, apperr.NotFound("")), "want not_found, got %v", err)
}

func TestGetInvoiceJoined(t *testing.T) {
	store, mock := newMockStore(t)

	added := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM invoices").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "comp_code", "amt", "paid", "add_date", "paid_date", "name", "description",
		}).AddRow(int64(7), "acme", 199.99, false, added, nil, "Acme", "maker of things"))

	joined, err := store.GetInvoiceJoined(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), joined.ID)
	require.Equal(t, "acme", joined.CompCode)
	require.Equal(t, "Acme", joined.CompanyName)
	require.Nil(t, joined.PaidDate)
}

func TestListIndustryMemberships(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("LEFT JOIN company_industry").
		WillReturnRows(sqlmock.NewRows([]string{"industry", "code", "comp_code"}).
			AddRow("Technology", "tech", "acme").
			AddRow("Agriculture", "ag", nil))

	rows, err := store.ListIndustryMemberships(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].CompCode)
	require.Equal(t, "acme", *rows[0].CompCode)
	require.Nil(t, rows[1].CompCode)
}

func TestCreateLinkViolations(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO company_industry").
		WillReturnError(&pq.Error{Code: "23503"})
	_, err := store.CreateLink(context.Background(), industry.Link{CompCode: "ghost", IndCode: "tech"})
	require.True(t, errors.Is(err, apperr.NotFound("")), "want not_found, got %v", err)

	mock.ExpectQuery("INSERT INTO company_industry").
		WillReturnError(&pq.Error{Code: "23505"})
	_, err = store.CreateLink(context.Background(), industry.Link{CompCode: "acme", IndCode: "tech"})
	require.True(t, errors.Is(err, apperr.Conflict("")), "want conflict, got %v", err)
}
