package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/interfaces"
	"github.com/bobmcallan/finsim/internal/models"
)

const (
	reportsPrefix = "reports/"
	reportFile    = "report.json"
)

// ReportStore archives reports as blobs under reports/<id>/.
type ReportStore struct {
	blobs  BlobStore
	logger *common.Logger
}

// NewReportStore wraps a blob store.
func NewReportStore(blobs BlobStore, logger *common.Logger) *ReportStore {
	return &ReportStore{blobs: blobs, logger: logger}
}

func reportKey(id, file string) string {
	return reportsPrefix + id + "/" + file
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.InvalidInput("id", "%q is not a report id", id)
	}
	return nil
}

// Save writes the artifacts first and the report document last, so a listed
// report always has its files.
func (s *ReportStore) Save(ctx context.Context, r *models.Report, artifacts map[models.Artifact][]byte) error {
	if err := checkID(r.ID); err != nil {
		return err
	}

	for a, data := range artifacts {
		if err := s.blobs.Put(ctx, reportKey(r.ID, a.FileName()), data); err != nil {
			return fmt.Errorf("failed to store %s for report %s: %w", a, r.ID, err)
		}
	}

	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", r.ID, err)
	}
	if err := s.blobs.Put(ctx, reportKey(r.ID, reportFile), doc); err != nil {
		return fmt.Errorf("failed to store report %s: %w", r.ID, err)
	}

	s.logger.Debug().Str("id", r.ID).Str("kind", string(r.Kind)).Int("artifacts", len(artifacts)).Msg("Report archived")
	return nil
}

// Load reads a report document. Returns ErrBlobNotFound for unknown ids.
func (s *ReportStore) Load(ctx context.Context, id string) (*models.Report, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, reportKey(id, reportFile))
	if err != nil {
		return nil, err
	}

	var r models.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &r, nil
}

// LoadArtifact reads one rendered file of a report.
func (s *ReportStore) LoadArtifact(ctx context.Context, id string, a models.Artifact) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.blobs.Get(ctx, reportKey(id, a.FileName()))
}

// List returns every archived report, oldest first.
func (s *ReportStore) List(ctx context.Context) ([]*models.Report, error) {
	var reports []*models.Report
	cursor := ""
	for {
		page, err := s.blobs.List(ctx, ListOptions{Prefix: reportsPrefix, Cursor: cursor})
		if err != nil {
			return nil, err
		}
		for _, b := range page.Blobs {
			if path.Base(b.Key) != reportFile {
				continue
			}
			id := path.Base(path.Dir(b.Key))
			r, err := s.Load(ctx, id)
			if err != nil {
				if errors.Is(err, ErrBlobNotFound) || common.IsInvalidInput(err) {
					continue
				}
				return nil, err
			}
			reports = append(reports, r)
		}
		if !page.Truncated || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	sortByCreated(reports)
	return reports, nil
}

// Delete removes a report and its artifacts.
func (s *ReportStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	page, err := s.blobs.List(ctx, ListOptions{Prefix: reportsPrefix + id + "/"})
	if err != nil {
		return err
	}
	for _, b := range page.Blobs {
		if err := s.blobs.Delete(ctx, b.Key); err != nil {
			return err
		}
	}
	return nil
}

// Purge deletes reports created before cutoff and returns how many went.
func (s *ReportStore) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	reports, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, r := range reports {
		if !r.CreatedAt.Before(cutoff) {
			continue
		}
		if err := s.Delete(ctx, r.ID); err != nil {
			return purged, fmt.Errorf("failed to purge report %s: %w", r.ID, err)
		}
		purged++
	}
	return purged, nil
}

func sortByCreated(reports []*models.Report) {
	sort.Slice(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

var _ interfaces.ReportStore = (*ReportStore)(nil)
