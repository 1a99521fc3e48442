package httpapi

import (
	"bytes"
	"fmt"

	"cryolab-data/internal/service"

	"github.com/xuri/excelize/v2"
)

// SessionExportHeader 会话导出表头（每行一个槽位，已解析为显示值）
var SessionExportHeader = []string{
	"Slot",
	"Used",
	"Trashed",
	"Sample",
	"Concentration",
	"Volume (ul)",
	"Blot Force",
	"Blot Time (s)",
	"Grid Type",
	"Grid Batch",
	"Additives",
	"Comments",
}

// GenerateSessionExport 生成单个会话的 Excel 导出文件
// Row 1..n of the summary block carry the session metadata; the slot table
// below it shows one row per slot with the resolved effective values, so
// the spreadsheet matches exactly what the UI displays.
func GenerateSessionExport(view *service.SessionView) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Session"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 会话摘要块
	summary := [][2]string{
		{"User", view.Session.UserName},
		{"Date", view.Session.Date},
		{"Grid Box", view.Session.GridBoxName},
		{"Storage Location", deref(view.Session.StorageLocation)},
		{"Notes", deref(view.Session.Notes)},
	}
	if view.Sample != nil {
		summary = append(summary,
			[2]string{"Sample", view.Sample.SampleName},
			[2]string{"Sample Concentration", deref(view.Sample.SampleConcentration)},
		)
	}
	if view.Settings != nil {
		summary = append(summary,
			[2]string{"Humidity (%)", floatCell(view.Settings.HumidityPercent)},
			[2]string{"Temperature (C)", floatCell(view.Settings.TemperatureC)},
		)
	}
	for row, pair := range summary {
		if err := setExportCell(f, sheetName, 1, row+1, pair[0]); err != nil {
			f.Close()
			return nil, err
		}
		if err := setExportCell(f, sheetName, 2, row+1, pair[1]); err != nil {
			f.Close()
			return nil, err
		}
		labelCell, _ := excelize.CoordinatesToCellName(1, row+1)
		if err := f.SetCellStyle(sheetName, labelCell, labelCell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set summary style: %w", err)
		}
	}

	// 槽位表头，摘要块下方空一行
	tableRow := len(summary) + 2
	for col, header := range SessionExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, tableRow)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{
		8,  // Slot
		8,  // Used
		10, // Trashed
		22, // Sample
		16, // Concentration
		12, // Volume
		12, // Blot Force
		14, // Blot Time
		16, // Grid Type
		16, // Grid Batch
		20, // Additives
		30, // Comments
	}
	for i := range SessionExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if i < len(columnWidths) {
			if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	// 槽位数据：存储记录与解析结果按 slot_number 一一对应
	for i, eff := range view.Effective {
		row := tableRow + 1 + i
		var sampleName, concentration, comments string
		if i < len(view.Slots) {
			s := view.Slots[i]
			sampleName = deref(s.SampleName)
			concentration = deref(s.SampleConcentration)
			comments = deref(s.Comments)
		}
		// a slot without its own sample inherits the session sample
		if sampleName == "" && view.Sample != nil {
			sampleName = view.Sample.SampleName
			if concentration == "" {
				concentration = deref(view.Sample.SampleConcentration)
			}
		}

		values := []any{
			eff.SlotNumber,
			yesNo(eff.Used),
			yesNo(eff.Trashed),
			sampleName,
			concentration,
			eff.VolumeUl,
			eff.BlotForce,
			eff.BlotTime,
			eff.GridType,
			eff.GridBatch,
			eff.Additives,
			comments,
		}
		for col, v := range values {
			if v == nil || v == "" {
				continue
			}
			if err := setExportCell(f, sheetName, col+1, row, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	// 冻结摘要与表头
	topLeft, _ := excelize.CoordinatesToCellName(1, tableRow+1)
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      tableRow,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	// Write to bytes buffer
	// Note: File must remain open during Write operation
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return buf.Bytes(), nil
}

// setExportCell 设置单元格值
func setExportCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
