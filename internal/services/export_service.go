package services

import (
	"fmt"
	"io"

	"github.com/alimgiray/userfinder/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	usersSheet        = "Users"
	repositoriesSheet = "Repositories"
)

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteWorkbook writes the cards as an .xlsx workbook with a Users sheet
// and a Repositories sheet
func (s *ExportService) WriteWorkbook(w io.Writer, views []models.CardView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", usersSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(repositoriesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, usersSheet, 1, []interface{}{"ID", "Login", "Profile", "Avatar", "Bio"}); err != nil {
		return err
	}
	if err := writeRow(f, repositoriesSheet, 1, []interface{}{"Login", "Rank", "Name", "URL"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(usersSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetCellStyle(repositoriesSheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	repoRow := 2
	for i, view := range views {
		user := view.User
		if err := writeRow(f, usersSheet, i+2, []interface{}{user.ID, user.Login, user.HTMLURL, user.AvatarURL, view.BioText()}); err != nil {
			return err
		}

		for rank, repo := range view.Repos {
			if err := writeRow(f, repositoriesSheet, repoRow, []interface{}{user.Login, rank + 1, repo.Name, repo.HTMLURL}); err != nil {
				return err
			}
			repoRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
