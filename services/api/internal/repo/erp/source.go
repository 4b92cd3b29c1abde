// Package erp reads customers, sales and products from the ERP's MSSQL database.
package erp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/services/api/internal/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
)

// Source is the read side of the ERP. All filter values are bound as parameters.
type Source interface {
	Ping(ctx context.Context) error
	Customers(ctx context.Context, filter entity.ERPFilter) ([]entity.ERPCustomer, error)
	Sales(ctx context.Context, filter entity.ERPFilter) ([]entity.ERPSale, error)
	Products(ctx context.Context, limit int) ([]entity.ERPProduct, error)
	Counts(ctx context.Context) (entity.ERPCounts, error)
	Close() error
}

type source struct {
	db *sqlx.DB
}

// DSN builds a sqlserver:// connection URL from the ERP settings.
func DSN(cfg *config.Config) string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.ERPUser, cfg.ERPPassword),
		Host:   fmt.Sprintf("%s:%s", cfg.ERPHost, cfg.ERPPort),
	}
	q := url.Values{}
	q.Set("database", cfg.ERPDatabase)
	q.Set("connection timeout", "30")
	u.RawQuery = q.Encode()
	return u.String()
}

// Open prepares a connection pool without dialing; use Ping to check reachability.
func Open(cfg *config.Config) (Source, error) {
	db, err := sqlx.Open("sqlserver", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open erp connection: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return NewSource(db), nil
}

func NewSource(db *sqlx.DB) Source {
	return &source{db: db}
}

func (s *source) Ping(ctx context.Context) error {
	var one int
	return s.db.GetContext(ctx, &one, "SELECT 1")
}

const customersQuery = `SELECT CustomerID, CustomerName, Email, Phone, Address, CustomerType,
	CreditLimit, TaxID, CreatedDate, ModifiedDate
FROM Customers
WHERE IsActive = 1`

func (s *source) Customers(ctx context.Context, filter entity.ERPFilter) ([]entity.ERPCustomer, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.Since != nil {
		clauses = append(clauses, "ModifiedDate >= ?")
		args = append(args, *filter.Since)
	}
	if filter.CustomerID != "" {
		clauses = append(clauses, "CustomerID = ?")
		args = append(args, filter.CustomerID)
	}

	query, args := build(customersQuery, clauses, "ModifiedDate DESC", filter.Limit, args)

	var rows []entity.ERPCustomer
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query erp customers: %w", err)
	}
	return rows, nil
}

const salesQuery = `SELECT s.SaleID, s.CustomerID, s.InvoiceNumber, s.SaleDate, s.TotalAmount,
	s.TaxAmount, s.PaymentMethod, c.CustomerName, c.Email, c.Phone
FROM Sales s
INNER JOIN Customers c ON s.CustomerID = c.CustomerID
WHERE s.IsActive = 1`

func (s *source) Sales(ctx context.Context, filter entity.ERPFilter) ([]entity.ERPSale, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.Since != nil {
		clauses = append(clauses, "s.SaleDate >= ?")
		args = append(args, *filter.Since)
	}
	if filter.CustomerID != "" {
		clauses = append(clauses, "s.CustomerID = ?")
		args = append(args, filter.CustomerID)
	}

	query, args := build(salesQuery, clauses, "s.SaleDate ASC", filter.Limit, args)

	var rows []entity.ERPSale
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query erp sales: %w", err)
	}
	return rows, nil
}

const productsQuery = `SELECT ProductID, ProductName, Category, Price AS UnitPrice, ProductCode AS SKU
FROM Products
WHERE IsActive = 1`

func (s *source) Products(ctx context.Context, limit int) ([]entity.ERPProduct, error) {
	query, args := build(productsQuery, nil, "ProductName ASC", limit, nil)

	var rows []entity.ERPProduct
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query erp products: %w", err)
	}
	return rows, nil
}

func (s *source) Counts(ctx context.Context) (entity.ERPCounts, error) {
	var counts entity.ERPCounts
	err := s.db.GetContext(ctx, &counts, `SELECT
	(SELECT COUNT(*) FROM Customers WHERE IsActive = 1) AS customers,
	(SELECT COUNT(*) FROM Sales WHERE IsActive = 1) AS sales,
	(SELECT COUNT(*) FROM Products WHERE IsActive = 1) AS products`)
	if err != nil {
		return counts, fmt.Errorf("failed to count erp rows: %w", err)
	}
	return counts, nil
}

func (s *source) Close() error {
	return s.db.Close()
}

// build appends the filter clauses, ordering and an optional row limit to base.
// Placeholders stay as '?' until the caller rebinds them for the driver.
func build(base string, clauses []string, orderBy string, limit int, args []interface{}) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(base)
	for _, c := range clauses {
		b.WriteString(" AND ")
		b.WriteString(c)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy)
	if limit > 0 {
		b.WriteString(" OFFSET 0 ROWS FETCH NEXT ? ROWS ONLY")
		args = append(args, limit)
	}
	return b.String(), args
}
