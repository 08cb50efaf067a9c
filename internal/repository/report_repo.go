package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// ReportsCollection holds one document per report run.
const ReportsCollection = "stat_reports"

// ReportRepository stores report runs in the `stat_reports` collection, one document per run.
type ReportRepository struct {
	client *firestore.Client
}

func NewReportRepository(client *firestore.Client) *ReportRepository {
	return &ReportRepository{client: client}
}

func (r *ReportRepository) SaveReport(ctx context.Context, run model.ReportRun) error {
	if run.ID == "" {
		return fmt.Errorf("report id is required")
	}
	ref := r.client.Collection(ReportsCollection).Doc(run.ID)
	if _, err := ref.Set(ctx, run); err != nil {
		return fmt.Errorf("save report %s: %w", run.ID, err)
	}
	return nil
}

func (r *ReportRepository) GetReport(ctx context.Context, id string) (model.ReportRun, error) {
	snap, err := r.client.Collection(ReportsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.ReportRun{}, fmt.Errorf("get report %s: %w", id, countries.ErrReportNotFound)
	}
	if err != nil {
		return model.ReportRun{}, fmt.Errorf("get report %s: %w", id, err)
	}
	var run model.ReportRun
	if err := snap.DataTo(&run); err != nil {
		return model.ReportRun{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	if run.ID == "" {
		run.ID = snap.Ref.ID
	}
	return run, nil
}

// ListReports returns the newest runs first, optionally filtered by query key.
func (r *ReportRepository) ListReports(ctx context.Context, queryKey string, limit int) ([]model.ReportRun, error) {
	q := r.client.Collection(ReportsCollection).Query
	if queryKey != "" {
		q = q.Where("queryKey", "==", queryKey)
	}
	iter := q.OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var runs []model.ReportRun
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate reports: %w", err)
		}
		var run model.ReportRun
		if err := doc.DataTo(&run); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", doc.Ref.ID, err)
		}
		if run.ID == "" {
			run.ID = doc.Ref.ID
		}
		runs = append(runs, run)
	}
	return runs, nil
}
