package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/engine"
)

var ErrExportFailed = errors.New("failed to generate the plan workbook")

const (
	activitiesSheet = "Activities"
	progressSheet   = "Progress"
	doneMark        = "✓"
)

type ExportService struct {
	repo   domain.UserRepository
	logger *zap.Logger
}

func NewExportService(repo domain.UserRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{repo: repo, logger: logger}
}

// ExportPlan renders the plan as an .xlsx workbook with two sheets:
//
//   - Activities: category, goal and activity, then one column per week
//     holding a check mark when the activity was done.
//   - Progress: one row per week with overall and per-category percentages.
//     Weeks without activities are left blank.
//
// It returns the workbook bytes and a suggested file name.
func (s *ExportService) ExportPlan(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(activitiesSheet)
	if err != nil {
		return nil, "", s.fail(userID, err)
	}
	if _, err := f.NewSheet(progressSheet); err != nil {
		return nil, "", s.fail(userID, err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if err := writeActivities(f, user); err != nil {
		return nil, "", s.fail(userID, err)
	}
	if err := writeProgress(f, user); err != nil {
		return nil, "", s.fail(userID, err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(userID, err)
	}

	return buf, fmt.Sprintf("plan-%s.xlsx", user.ID), nil
}

func (s *ExportService) fail(userID string, err error) error {
	s.logger.Error("plan export failed", zap.String("user_id", userID), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrExportFailed, err)
}

func writeActivities(f *excelize.File, user *domain.User) error {
	header := []interface{}{"Category", "Goal", "Activity"}
	for w := 0; w < user.TotalWeeks; w++ {
		header = append(header, weekLabel(w))
	}
	if err := f.SetSheetRow(activitiesSheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, c := range domain.AllCategories() {
		for _, g := range user.Categories[c].Goals {
			for _, a := range g.Activities {
				values := []interface{}{c.DisplayName(), g.Name, a.Name}
				for w := 0; w < user.TotalWeeks; w++ {
					mark := ""
					if a.DoneIn(w) {
						mark = doneMark
					}
					values = append(values, mark)
				}
				start, err := rowStart(row)
				if err != nil {
					return err
				}
				if err := f.SetSheetRow(activitiesSheet, start, &values); err != nil {
					return err
				}
				row++
			}
		}
	}

	return f.SetColWidth(activitiesSheet, "A", "C", 20)
}

func writeProgress(f *excelize.File, user *domain.User) error {
	cats := domain.AllCategories()

	header := []interface{}{"Week", "Overall"}
	for _, c := range cats {
		header = append(header, c.DisplayName())
	}
	if err := f.SetSheetRow(progressSheet, "A1", &header); err != nil {
		return err
	}

	for w, overall := range engine.WeeklyOverall(user) {
		values := []interface{}{weekLabel(w), percentCell(overall)}
		for _, c := range cats {
			values = append(values, percentCell(engine.CategoryProgress(user, c, w)))
		}
		start, err := rowStart(w + 2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(progressSheet, start, &values); err != nil {
			return err
		}
	}
	return nil
}

func percentCell(p domain.Percent) interface{} {
	if !p.Valid {
		return ""
	}
	return p.Value
}

func weekLabel(week int) string {
	return fmt.Sprintf("Week %d", week+1)
}

// rowStart is the first cell of a 1-based sheet row.
func rowStart(row int) (string, error) {
	return excelize.CoordinatesToCellName(1, row)
}
