package persistent

import (
	"context"
	"time"

	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

type SyncRunRepository interface {
	Start(ctx context.Context, kind entity.SyncKind, startedAt time.Time) (*entity.SyncRun, error)
	Finish(ctx context.Context, run *entity.SyncRun, result *entity.SyncResult) error
	List(ctx context.Context, limit int) ([]*entity.SyncRun, error)
	Since(ctx context.Context, since time.Time) ([]*entity.SyncRun, error)
	LastSuccessful(ctx context.Context) (*entity.SyncRun, error)
	Last(ctx context.Context) (*entity.SyncRun, error)
	LinkedCounts(ctx context.Context) (customers int64, sales int64, err error)
}

type syncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) Start(ctx context.Context, kind entity.SyncKind, startedAt time.Time) (*entity.SyncRun, error) {
	runModel := &model.SyncRunModel{
		Kind:      string(kind),
		Status:    string(entity.SyncInProgress),
		StartedAt: startedAt,
	}
	if err := r.db.WithContext(ctx).Create(runModel).Error; err != nil {
		return nil, err
	}
	return ToSyncRunEntity(runModel), nil
}

func (r *syncRunRepository) Finish(ctx context.Context, run *entity.SyncRun, result *entity.SyncResult) error {
	finished := result.Timestamp
	run.Status = result.Status
	run.Processed = result.Processed
	run.Successful = result.Successful
	run.Failed = result.Failed
	run.Errors = result.Errors
	run.FinishedAt = &finished
	run.DurationMS = result.Duration.Milliseconds()

	runModel := ToSyncRunModel(run)
	return r.db.WithContext(ctx).Model(runModel).
		Select("status", "records_processed", "records_successful", "records_failed", "errors", "finished_at", "duration_ms").
		Updates(runModel).Error
}

func (r *syncRunRepository) find(query *gorm.DB) ([]*entity.SyncRun, error) {
	var runModels []model.SyncRunModel
	if err := query.Order("started_at DESC").Find(&runModels).Error; err != nil {
		return nil, err
	}
	runs := make([]*entity.SyncRun, len(runModels))
	for i := range runModels {
		runs[i] = ToSyncRunEntity(&runModels[i])
	}
	return runs, nil
}

func (r *syncRunRepository) List(ctx context.Context, limit int) ([]*entity.SyncRun, error) {
	return r.find(r.db.WithContext(ctx).Limit(limit))
}

func (r *syncRunRepository) Since(ctx context.Context, since time.Time) ([]*entity.SyncRun, error) {
	return r.find(r.db.WithContext(ctx).Where("started_at >= ?", since))
}

func (r *syncRunRepository) LastSuccessful(ctx context.Context) (*entity.SyncRun, error) {
	var runModel model.SyncRunModel
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.SyncCompleted).
		Order("started_at DESC").
		First(&runModel).Error
	if err != nil {
		return nil, translate(err, "sync run")
	}
	return ToSyncRunEntity(&runModel), nil
}

func (r *syncRunRepository) Last(ctx context.Context) (*entity.SyncRun, error) {
	var runModel model.SyncRunModel
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&runModel).Error; err != nil {
		return nil, translate(err, "sync run")
	}
	return ToSyncRunEntity(&runModel), nil
}

// LinkedCounts returns the number of customers carrying an ERP id and of
// ledger rows imported from ERP sales.
func (r *syncRunRepository) LinkedCounts(ctx context.Context) (int64, int64, error) {
	db := r.db.WithContext(ctx)

	var customers int64
	if err := db.Model(&model.CustomerModel{}).Where("erp_id IS NOT NULL").Count(&customers).Error; err != nil {
		return 0, 0, err
	}

	var sales int64
	if err := db.Model(&model.LoyaltyTransactionModel{}).Where("erp_sale_id IS NOT NULL").Count(&sales).Error; err != nil {
		return 0, 0, err
	}
	return customers, sales, nil
}
