package fivemservice

import (
	"context"
	"fmt"

	fivemdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/domain"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names, in tab order.
const (
	SheetEconomy  = "Economy"
	SheetRichest  = "Richest"
	SheetJobs     = "Jobs"
	SheetVehicles = "Vehicles"
)

// ExportXLSX builds a workbook with the economy, richest, jobs and vehicle dashboards.
func (s *FiveMService) ExportXLSX(ctx context.Context) ([]byte, error) {
	data, err := query(s, ctx, "ExportXLSX", s.collectExport)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(data)
}

type exportData struct {
	overview fivemdomain.EconomyOverview
	buckets  []fivemdomain.WealthBucket
	richest  []fivemdomain.RichCharacter
	jobs     []fivemdomain.JobCount
	vehicles *fivemdomain.VehicleStats
}

func (s *FiveMService) collectExport(ctx context.Context) (*exportData, error) {
	holdings, err := s.holdings(ctx)
	if err != nil {
		return nil, err
	}
	richest, err := s.richest(ctx, MaxRichestLimit)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles(ctx, MaxModelLimit)
	if err != nil {
		return nil, err
	}
	return &exportData{
		overview: fivemdomain.Summarise(holdings),
		buckets:  fivemdomain.Distribute(holdings),
		richest:  richest,
		jobs:     jobs,
		vehicles: vehicles,
	}, nil
}

func buildWorkbook(data *exportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	o := data.overview
	economy := [][]any{
		{"Metric", "Value"},
		{"Characters", o.Characters},
		{"Total cash", o.TotalCash},
		{"Total bank", o.TotalBank},
		{"Total crypto", o.TotalCrypto},
		{"Average cash", o.AverageCash},
		{"Average bank", o.AverageBank},
		{"Median cash", o.MedianCash},
		{"Median bank", o.MedianBank},
		{},
		{"Wealth bucket", "Characters"},
	}
	for _, b := range data.buckets {
		economy = append(economy, []any{b.Label, b.Count})
	}

	richest := [][]any{{"Rank", "Citizen ID", "Name", "Job", "Cash", "Bank", "Total"}}
	for i, c := range data.richest {
		richest = append(richest, []any{i + 1, c.CitizenID, c.Name, c.Job, c.Cash, c.Bank, c.Total})
	}

	jobs := [][]any{{"Job", "Label", "Characters"}}
	for _, j := range data.jobs {
		jobs = append(jobs, []any{j.Name, j.Label, j.Count})
	}

	vehicles := [][]any{{"Model", "Owned"}}
	for _, m := range data.vehicles.TopModels {
		vehicles = append(vehicles, []any{m.Model, m.Count})
	}
	vehicles = append(vehicles, []any{}, []any{"Total vehicles", data.vehicles.Total})

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetEconomy, economy},
		{SheetRichest, richest},
		{SheetJobs, jobs},
		{SheetVehicles, vehicles},
	}
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}
		if err := writeRows(f, sh.name, sh.rows, header); err != nil {
			return nil, fmt.Errorf("failed to write %s sheet: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, header int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}
