package report

import (
	"io"
	"strconv"

	"github.com/earentir/lscpu"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const sheetName = "CPU"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

func renderXlsx(w io.Writer, fields []lscpu.Field) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	row := 1
	_ = f.SetCellValue(sheetName, cellName(1, row), "Field")
	_ = f.SetCellValue(sheetName, cellName(2, row), "Value")
	_ = f.SetCellStyle(sheetName, cellName(1, row), cellName(2, row), headerStyle)
	for _, field := range fields {
		row++
		_ = f.SetCellValue(sheetName, cellName(1, row), field.Label)
		// numbers stay numeric, except composite renderings such as "0,1"
		var value any = field.Text()
		if n, ok := field.Value.(uint32); ok && strconv.FormatUint(uint64(n), 10) == field.Text() {
			value = n
		}
		_ = f.SetCellValue(sheetName, cellName(2, row), value)
	}
	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "B", "B", 48)

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}
