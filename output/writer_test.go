package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Headers: []string{"Key", "Value", "Description"},
		Rows: [][]string{
			{"AnalyticsId", "UA-123-1", "Analytics key"},
			{"HelpDeskUrl", "https://support.contoso.com", ""},
		},
	}
}

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("csv"); err != nil {
		t.Fatalf("csv writer: %v", err)
	}
	if _, err := WriterForFormat("xlsx"); err != nil {
		t.Fatalf("xlsx writer: %v", err)
	}
	if _, err := WriterForFormat("Excel"); err != nil {
		t.Fatalf("excel writer: %v", err)
	}
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entities.csv")
	if err := (&CSVWriter{}).Write(path, sampleTable()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "Key" || records[1][1] != "UA-123-1" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestExcelWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entities.xlsx")
	if err := (&ExcelWriter{}).Write(path, sampleTable()); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	header, err := file.GetCellValue(sheet, "A1")
	if err != nil || header != "Key" {
		t.Fatalf("unexpected header cell: %q, %v", header, err)
	}
	value, err := file.GetCellValue(sheet, "B3")
	if err != nil || value != "https://support.contoso.com" {
		t.Fatalf("unexpected value cell: %q, %v", value, err)
	}
}
