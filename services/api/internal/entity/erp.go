package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type SyncStatus string

const (
	SyncPending    SyncStatus = "pending"
	SyncInProgress SyncStatus = "in_progress"
	SyncCompleted  SyncStatus = "completed"
	SyncFailed     SyncStatus = "failed"
	SyncPartial    SyncStatus = "partial"
)

type SyncKind string

const (
	SyncKindCustomers   SyncKind = "customers"
	SyncKindSales       SyncKind = "sales"
	SyncKindAll         SyncKind = "all"
	SyncKindIncremental SyncKind = "incremental"
)

type SyncResult struct {
	Kind       SyncKind      `json:"kind"`
	Status     SyncStatus    `json:"status"`
	Processed  int           `json:"records_processed"`
	Successful int           `json:"records_successful"`
	Failed     int           `json:"records_failed"`
	Skipped    int           `json:"records_skipped"`
	Errors     []string      `json:"errors"`
	Duration   time.Duration `json:"duration_ns"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Finish derives the status from the counters.
func (r *SyncResult) Finish(started time.Time) {
	r.Duration = time.Since(started)
	r.Timestamp = time.Now().UTC()
	switch {
	case r.Failed == 0:
		r.Status = SyncCompleted
	case r.Successful > 0:
		r.Status = SyncPartial
	default:
		r.Status = SyncFailed
	}
}

func (r *SyncResult) Fail(message string) {
	r.Failed++
	r.Errors = append(r.Errors, message)
}

// Merge folds another result into r.
func (r *SyncResult) Merge(other *SyncResult) {
	r.Processed += other.Processed
	r.Successful += other.Successful
	r.Failed += other.Failed
	r.Skipped += other.Skipped
	r.Errors = append(r.Errors, other.Errors...)
}

// ERPCustomer is a row of the ERP Customers table.
type ERPCustomer struct {
	CustomerID   string              `db:"CustomerID" json:"CustomerID"`
	CustomerName string              `db:"CustomerName" json:"CustomerName"`
	Email        *string             `db:"Email" json:"Email"`
	Phone        *string             `db:"Phone" json:"Phone"`
	Address      *string             `db:"Address" json:"Address"`
	CustomerType *string             `db:"CustomerType" json:"CustomerType"`
	CreditLimit  decimal.NullDecimal `db:"CreditLimit" json:"CreditLimit"`
	TaxID        *string             `db:"TaxID" json:"TaxID"`
	CreatedDate  *time.Time          `db:"CreatedDate" json:"CreatedDate"`
	ModifiedDate *time.Time          `db:"ModifiedDate" json:"ModifiedDate"`
}

type ERPSale struct {
	SaleID        string              `db:"SaleID" json:"SaleID"`
	CustomerID    string              `db:"CustomerID" json:"CustomerID"`
	InvoiceNumber string              `db:"InvoiceNumber" json:"InvoiceNumber"`
	SaleDate      time.Time           `db:"SaleDate" json:"SaleDate"`
	TotalAmount   decimal.Decimal     `db:"TotalAmount" json:"TotalAmount"`
	TaxAmount     decimal.NullDecimal `db:"TaxAmount" json:"TaxAmount"`
	PaymentMethod *string             `db:"PaymentMethod" json:"PaymentMethod"`
	CustomerName  *string             `db:"CustomerName" json:"CustomerName"`
	Email         *string             `db:"Email" json:"Email"`
	Phone         *string             `db:"Phone" json:"Phone"`
}

type ERPProduct struct {
	ProductID   string          `db:"ProductID" json:"ProductID"`
	ProductName string          `db:"ProductName" json:"ProductName"`
	Category    *string         `db:"Category" json:"Category"`
	UnitPrice   decimal.Decimal `db:"UnitPrice" json:"UnitPrice"`
	SKU         *string         `db:"SKU" json:"SKU"`
}

type ERPFilter struct {
	Since      *time.Time
	CustomerID string
	Limit      int
}

type SyncRun struct {
	ID         string     `json:"id"`
	Kind       SyncKind   `json:"kind"`
	Status     SyncStatus `json:"status"`
	Processed  int        `json:"records_processed"`
	Successful int        `json:"records_successful"`
	Failed     int        `json:"records_failed"`
	Errors     []string   `json:"errors"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

type ERPCounts struct {
	Customers int64 `json:"customers"`
	Sales     int64 `json:"sales"`
	Products  int64 `json:"products"`
}

type DataSummary struct {
	ERP             ERPCounts  `json:"erp"`
	LinkedCustomers int64      `json:"linked_customers"`
	SyncedSales     int64      `json:"synced_sales"`
	LastSync        *time.Time `json:"last_sync,omitempty"`
}

type SyncReport struct {
	PeriodDays       int              `json:"period_days"`
	TotalRuns        int              `json:"total_runs"`
	SuccessfulRuns   int              `json:"successful_runs"`
	FailedRuns       int              `json:"failed_runs"`
	PartialRuns      int              `json:"partial_runs"`
	SuccessRate      float64          `json:"success_rate"`
	RecordsProcessed int              `json:"records_processed"`
	RecordsFailed    int              `json:"records_failed"`
	ByKind           map[SyncKind]int `json:"by_kind"`
}

type FieldMapping struct {
	Entity     string `json:"entity"`
	ERPField   string `json:"erp_field"`
	LocalField string `json:"local_field"`
	Transform  string `json:"transform,omitempty"`
}

type IntegrationHealth struct {
	Connected     bool       `json:"connected"`
	Error         string     `json:"error,omitempty"`
	LastRun       *SyncRun   `json:"last_run,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	Healthy       bool       `json:"healthy"`
}

type ConnectionStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Host       string `json:"host,omitempty"`
	Database   string `json:"database,omitempty"`
	Error      string `json:"error,omitempty"`
}
