package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// workbook excelize 文件的薄封装：按表格写入多个 Sheet，首个 Sheet 替换默认的 Sheet1
type workbook struct {
	f           *excelize.File
	sheets      int
	headerStyle int
}

func newWorkbook() *workbook {
	f := excelize.NewFile()
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return &workbook{f: f, headerStyle: style}
}

// writeTable 新建 Sheet，写入表头与数据行
func (w *workbook) writeTable(sheet string, header []string, rows [][]interface{}) error {
	if w.sheets == 0 {
		if err := w.f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	} else {
		if _, err := w.f.NewSheet(sheet); err != nil {
			return err
		}
	}
	w.sheets++

	for i, h := range header {
		if err := w.f.SetCellValue(sheet, cell(colName(i), 1), h); err != nil {
			return err
		}
		width := float64(len([]rune(h)) + 6)
		if width < 14 {
			width = 14
		}
		col := colName(i)
		w.f.SetColWidth(sheet, col, col, width)
	}
	if len(header) > 0 {
		w.f.SetCellStyle(sheet, "A1", cell(colName(len(header)-1), 1), w.headerStyle)
	}

	for r, row := range rows {
		for c, v := range row {
			if err := w.f.SetCellValue(sheet, cell(colName(c), r+2), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *workbook) buffer() (*bytes.Buffer, error) {
	w.f.SetActiveSheet(0)
	buf := new(bytes.Buffer)
	if err := w.f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (w *workbook) Close() error {
	return w.f.Close()
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
