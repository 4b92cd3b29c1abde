package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/metrics"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/erp"
	"loyalty-hub/services/api/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

const (
	incrementalFallback = 24 * time.Hour
	defaultSyncHistory  = 20
	erpPlaceholderHost  = "erp.local"
	maxPhoneLength      = 20
)

var errERPNotConfigured = errs.Validation("erp integration is not configured")

type ERPUseCase interface {
	TestConnection(ctx context.Context) (*entity.ConnectionStatus, error)
	Status(ctx context.Context) (*entity.ConnectionStatus, error)
	SyncCustomers(ctx context.Context, since *time.Time) (*entity.SyncResult, error)
	SyncSales(ctx context.Context, since *time.Time) (*entity.SyncResult, error)
	SyncAll(ctx context.Context) (*entity.SyncResult, error)
	IncrementalSync(ctx context.Context) (*entity.SyncResult, error)
	SyncToERP(ctx context.Context, customerID string) error

	SyncHistory(ctx context.Context, limit int) ([]*entity.SyncRun, error)
	SyncReport(ctx context.Context, days int) (*entity.SyncReport, error)
	DataSummary(ctx context.Context) (*entity.DataSummary, error)
	Mappings() []entity.FieldMapping
	IntegrationHealth(ctx context.Context) (*entity.IntegrationHealth, error)
}

type erpUseCase struct {
	source       erp.Source
	customerRepo persistent.CustomerRepository
	loyaltyRepo  persistent.LoyaltyRepository
	syncRepo     persistent.SyncRunRepository
	loyalty      LoyaltyUseCase
	cfg          *config.Config
	logger       *logger.Logger
}

// NewERPUseCase accepts a nil source when the ERP is not configured; sync
// operations then fail with a validation error.
func NewERPUseCase(
	source erp.Source,
	customerRepo persistent.CustomerRepository,
	loyaltyRepo persistent.LoyaltyRepository,
	syncRepo persistent.SyncRunRepository,
	loyalty LoyaltyUseCase,
	cfg *config.Config,
	logger *logger.Logger,
) ERPUseCase {
	return &erpUseCase{
		source:       source,
		customerRepo: customerRepo,
		loyaltyRepo:  loyaltyRepo,
		syncRepo:     syncRepo,
		loyalty:      loyalty,
		cfg:          cfg,
		logger:       logger,
	}
}

func (uc *erpUseCase) TestConnection(ctx context.Context) (*entity.ConnectionStatus, error) {
	status := &entity.ConnectionStatus{
		Configured: uc.source != nil,
		Host:       uc.cfg.ERPHost,
		Database:   uc.cfg.ERPDatabase,
	}
	if uc.source == nil {
		status.Error = "not configured"
		return status, nil
	}
	if err := uc.source.Ping(ctx); err != nil {
		uc.logger.Warn("ERP connection test failed: %v", err)
		status.Error = err.Error()
		return status, nil
	}
	status.Connected = true
	return status, nil
}

func (uc *erpUseCase) Status(ctx context.Context) (*entity.ConnectionStatus, error) {
	return uc.TestConnection(ctx)
}

func (uc *erpUseCase) SyncCustomers(ctx context.Context, since *time.Time) (*entity.SyncResult, error) {
	return uc.run(ctx, entity.SyncKindCustomers, func(ctx context.Context, result *entity.SyncResult) error {
		return uc.syncCustomers(ctx, since, result)
	})
}

func (uc *erpUseCase) SyncSales(ctx context.Context, since *time.Time) (*entity.SyncResult, error) {
	return uc.run(ctx, entity.SyncKindSales, func(ctx context.Context, result *entity.SyncResult) error {
		return uc.syncSales(ctx, since, result)
	})
}

func (uc *erpUseCase) SyncAll(ctx context.Context) (*entity.SyncResult, error) {
	return uc.run(ctx, entity.SyncKindAll, func(ctx context.Context, result *entity.SyncResult) error {
		return uc.syncBoth(ctx, nil, result)
	})
}

func (uc *erpUseCase) IncrementalSync(ctx context.Context) (*entity.SyncResult, error) {
	cutoff := time.Now().UTC().Add(-incrementalFallback)
	last, err := uc.syncRepo.LastSuccessful(ctx)
	switch {
	case err == nil && last != nil:
		cutoff = last.StartedAt
	case err != nil && !errors.Is(err, errs.ErrNotFound):
		uc.logger.Warn("Failed to load last successful sync, using %s cutoff: %v", incrementalFallback, err)
	}

	uc.logger.Info("Incremental ERP sync since %s", cutoff.Format(time.RFC3339))
	return uc.run(ctx, entity.SyncKindIncremental, func(ctx context.Context, result *entity.SyncResult) error {
		return uc.syncBoth(ctx, &cutoff, result)
	})
}

func (uc *erpUseCase) SyncToERP(ctx context.Context, customerID string) error {
	return errs.Validation("sync to erp is not supported")
}

func (uc *erpUseCase) syncBoth(ctx context.Context, since *time.Time, result *entity.SyncResult) error {
	customers := &entity.SyncResult{}
	if err := uc.syncCustomers(ctx, since, customers); err != nil {
		customers.Fail(err.Error())
	}
	result.Merge(customers)

	sales := &entity.SyncResult{}
	if err := uc.syncSales(ctx, since, sales); err != nil {
		sales.Fail(err.Error())
	}
	result.Merge(sales)
	return nil
}

// run records the sync in erp_sync_runs around fn. A source-level failure fails
// the whole run; per-record failures are counted by fn.
func (uc *erpUseCase) run(ctx context.Context, kind entity.SyncKind, fn func(context.Context, *entity.SyncResult) error) (*entity.SyncResult, error) {
	if uc.source == nil {
		return nil, errERPNotConfigured
	}

	started := time.Now().UTC()
	result := &entity.SyncResult{Kind: kind, Status: entity.SyncInProgress, Errors: []string{}}

	run, err := uc.syncRepo.Start(ctx, kind, started)
	if err != nil {
		uc.logger.Error("Failed to record %s sync start: %v", kind, err)
		return nil, fmt.Errorf("failed to start sync: %w", err)
	}

	if err := fn(ctx, result); err != nil {
		result.Fail(err.Error())
	}
	result.Finish(started)
	metrics.RecordERPSync(string(kind), string(result.Status), result.Duration)

	if err := uc.syncRepo.Finish(ctx, run, result); err != nil {
		uc.logger.Error("Failed to record %s sync result: %v", kind, err)
	}

	uc.logger.Info("ERP %s sync %s: processed=%d successful=%d failed=%d skipped=%d in %s",
		kind, result.Status, result.Processed, result.Successful, result.Failed, result.Skipped, result.Duration)
	return result, nil
}

func (uc *erpUseCase) syncCustomers(ctx context.Context, since *time.Time, result *entity.SyncResult) error {
	rows, err := uc.source.Customers(ctx, entity.ERPFilter{Since: since})
	if err != nil {
		return errs.External("erp", err)
	}

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := rows[i]
		result.Processed++
		if err := uc.syncCustomer(ctx, row); err != nil {
			result.Fail(fmt.Sprintf("customer %s: %v", row.CustomerID, err))
			continue
		}
		result.Successful++
	}
	return nil
}

func (uc *erpUseCase) syncCustomer(ctx context.Context, row entity.ERPCustomer) error {
	hash, err := RecordHash(row)
	if err != nil {
		return err
	}
	email, phone := erpContact(row)

	customer, err := uc.matchCustomer(ctx, row.CustomerID, email, phone)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	if customer == nil {
		return uc.createFromERP(ctx, row, email, phone, hash, now)
	}
	if customer.DataHash == hash && customer.ERPID == row.CustomerID {
		return nil
	}

	user := customer.User
	if user == nil {
		return fmt.Errorf("customer %s has no user", customer.ID)
	}
	if name := strings.TrimSpace(row.CustomerName); name != "" {
		user.Name = name
	}
	user.Email = email
	user.Phone = phone
	customer.ERPID = row.CustomerID
	customer.DataHash = hash
	customer.LastSync = &now

	if err := uc.customerRepo.UpdateWithUser(ctx, user, customer); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// matchCustomer tries erp_id, then email, then phone. It returns nil when no
// local customer corresponds to the row.
func (uc *erpUseCase) matchCustomer(ctx context.Context, erpID, email, phone string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByERPID(ctx, erpID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to match by erp id: %w", err)
	}

	customer, err = uc.customerRepo.FindByContact(ctx, email, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to match by contact: %w", err)
	}
	return nil, nil
}

func (uc *erpUseCase) createFromERP(ctx context.Context, row entity.ERPCustomer, email, phone, hash string, now time.Time) error {
	password, err := randomHex(16)
	if err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}
	passwordHash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(row.CustomerName)
	if name == "" {
		name = "ERP customer " + row.CustomerID
	}
	user := &entity.User{
		Name:         truncate(name, 100),
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         entity.RoleCustomer,
		Status:       entity.UserStatusActive,
	}
	customer := newCustomerRecord(nil, row.CustomerID)
	customer.DataHash = hash
	customer.LastSync = &now
	if row.CreatedDate != nil {
		customer.JoinedDate = row.CreatedDate.UTC()
	}

	if err := uc.customerRepo.CreateWithUser(ctx, user, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	uc.logger.Debug("Created customer %s from ERP customer %s", customer.ID, row.CustomerID)
	return nil
}

func (uc *erpUseCase) syncSales(ctx context.Context, since *time.Time, result *entity.SyncResult) error {
	rows, err := uc.source.Sales(ctx, entity.ERPFilter{Since: since})
	if err != nil {
		return errs.External("erp", err)
	}
	rate := decimal.NewFromFloat(uc.cfg.ERPPointsPerUnit)

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		sale := rows[i]
		result.Processed++

		awarded, err := uc.syncSale(ctx, sale, rate)
		switch {
		case err != nil:
			result.Fail(fmt.Sprintf("sale %s: %v", sale.SaleID, err))
		case awarded:
			result.Successful++
		default:
			result.Skipped++
		}
	}
	return nil
}

// syncSale reports false, without error, for sales already on the ledger and
// for sales worth zero points.
func (uc *erpUseCase) syncSale(ctx context.Context, sale entity.ERPSale, rate decimal.Decimal) (bool, error) {
	exists, err := uc.loyaltyRepo.ExistsForERPSale(ctx, sale.SaleID)
	if err != nil {
		return false, fmt.Errorf("failed to check sale: %w", err)
	}
	if exists {
		return false, nil
	}

	points := SalePoints(sale.TotalAmount, rate)
	if points <= 0 {
		return false, nil
	}

	customer, err := uc.customerRepo.GetByERPID(ctx, sale.CustomerID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve customer %s: %w", sale.CustomerID, err)
	}

	_, err = uc.loyalty.AwardPoints(ctx, entity.PointsAward{
		CustomerID:  customer.ID,
		Points:      points,
		Source:      entity.SourcePurchase,
		Description: fmt.Sprintf("Points earned from sale %s", sale.InvoiceNumber),
		ReferenceID: sale.InvoiceNumber,
		ERPSaleID:   sale.SaleID,
		Metadata: entity.TransactionMetadata{
			InvoiceNumber: sale.InvoiceNumber,
			SaleAmount:    sale.TotalAmount.StringFixed(2),
		},
	})
	if err != nil {
		// A concurrent run may have inserted the same sale first.
		if errors.Is(err, errs.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SalePoints is floor(amount * rate).
func SalePoints(amount, rate decimal.Decimal) int {
	return int(amount.Mul(rate).Floor().IntPart())
}

// RecordHash is the MD5 hex of the row's JSON object with sorted keys.
func RecordHash(row interface{}) (string, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	// encoding/json writes map keys in sorted order.
	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// erpContact returns the email and phone to store locally, with placeholders
// for rows missing either since both columns are required and unique.
func erpContact(row entity.ERPCustomer) (string, string) {
	email := ""
	if row.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*row.Email))
	}
	if email == "" {
		email = fmt.Sprintf("erp-%s@%s", strings.ToLower(row.CustomerID), erpPlaceholderHost)
	}
	phone := ""
	if row.Phone != nil {
		phone = strings.TrimSpace(*row.Phone)
	}
	if phone == "" {
		phone = "erp-" + row.CustomerID
	}
	return email, truncate(phone, maxPhoneLength)
}

func (uc *erpUseCase) SyncHistory(ctx context.Context, limit int) ([]*entity.SyncRun, error) {
	if limit <= 0 {
		limit = defaultSyncHistory
	}
	if limit > entity.MaxPageLimit {
		limit = entity.MaxPageLimit
	}
	return uc.syncRepo.List(ctx, limit)
}

func (uc *erpUseCase) SyncReport(ctx context.Context, days int) (*entity.SyncReport, error) {
	if days <= 0 {
		days = 7
	}
	runs, err := uc.syncRepo.Since(ctx, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		uc.logger.Error("Failed to load sync runs: %v", err)
		return nil, fmt.Errorf("failed to load sync runs: %w", err)
	}

	report := &entity.SyncReport{PeriodDays: days, ByKind: map[entity.SyncKind]int{}}
	for _, run := range runs {
		report.TotalRuns++
		report.ByKind[run.Kind]++
		report.RecordsProcessed += run.Processed
		report.RecordsFailed += run.Failed
		switch run.Status {
		case entity.SyncCompleted:
			report.SuccessfulRuns++
		case entity.SyncFailed:
			report.FailedRuns++
		case entity.SyncPartial:
			report.PartialRuns++
		}
	}
	if report.TotalRuns > 0 {
		report.SuccessRate = float64(report.SuccessfulRuns) / float64(report.TotalRuns) * 100
	}
	return report, nil
}

func (uc *erpUseCase) DataSummary(ctx context.Context) (*entity.DataSummary, error) {
	if uc.source == nil {
		return nil, errERPNotConfigured
	}
	counts, err := uc.source.Counts(ctx)
	if err != nil {
		return nil, errs.External("erp", err)
	}
	customers, sales, err := uc.syncRepo.LinkedCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count linked records: %w", err)
	}

	summary := &entity.DataSummary{ERP: counts, LinkedCustomers: customers, SyncedSales: sales}
	if last, err := uc.syncRepo.LastSuccessful(ctx); err == nil && last != nil {
		summary.LastSync = last.FinishedAt
	}
	return summary, nil
}

func (uc *erpUseCase) Mappings() []entity.FieldMapping {
	return []entity.FieldMapping{
		{Entity: "customer", ERPField: "CustomerID", LocalField: "customers.erp_id"},
		{Entity: "customer", ERPField: "CustomerName", LocalField: "users.name"},
		{Entity: "customer", ERPField: "Email", LocalField: "users.email", Transform: "lowercase"},
		{Entity: "customer", ERPField: "Phone", LocalField: "users.phone"},
		{Entity: "customer", ERPField: "CreatedDate", LocalField: "customers.joined_date"},
		{Entity: "sale", ERPField: "SaleID", LocalField: "loyalty_transactions.erp_sale_id"},
		{Entity: "sale", ERPField: "InvoiceNumber", LocalField: "loyalty_transactions.reference_id"},
		{Entity: "sale", ERPField: "TotalAmount", LocalField: "loyalty_transactions.points",
			Transform: fmt.Sprintf("floor(amount * %g)", uc.cfg.ERPPointsPerUnit)},
	}
}

func (uc *erpUseCase) IntegrationHealth(ctx context.Context) (*entity.IntegrationHealth, error) {
	conn, err := uc.TestConnection(ctx)
	if err != nil {
		return nil, err
	}
	health := &entity.IntegrationHealth{Connected: conn.Connected, Error: conn.Error}

	if last, err := uc.syncRepo.Last(ctx); err == nil {
		health.LastRun = last
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to load last sync: %w", err)
	}
	if ok, err := uc.syncRepo.LastSuccessful(ctx); err == nil && ok != nil {
		health.LastSuccessAt = ok.FinishedAt
	}

	health.Healthy = health.Connected && (health.LastRun == nil || health.LastRun.Status != entity.SyncFailed)
	return health, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
