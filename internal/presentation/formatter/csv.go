package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, data []StationStatus) error {
	cw := csv.NewWriter(w)

	headers := []string{"Station"}
	for _, id := range phase.All() {
		headers = append(headers, string(id))
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range data {
		record := []string{row.Station}
		for _, id := range phase.All() {
			record = append(record, strconv.FormatBool(row.Phases[string(id)]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
