package writer

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/vadar/recall-ticker/config"
	"github.com/vadar/recall-ticker/price"
)

var faint = color.New(color.Faint).SprintFunc()

type tableWriter struct {
	*uilive.Writer
	table   *tablewriter.Table
	columns []string
}

// Set up ascii table writer
func NewTableWriter(columns []string) (*tableWriter, error) {
	return newTableWriter(colorable.NewColorableStdout(), columns) // For Windows
}

func newTableWriter(out io.Writer, columns []string) (*tableWriter, error) {
	for _, hdr := range columns {
		if !isSupported(hdr) {
			return nil, errors.Errorf("unknown column: %s", hdr)
		}
	}
	tw := &tableWriter{Writer: uilive.New(), columns: columns}
	tw.Writer.Out = out
	tw.table = tablewriter.NewWriter(tw.Writer)
	tw.table.SetAutoFormatHeaders(false)
	tw.table.SetAutoWrapText(false)
	formattedHeaders := make([]string, len(columns))
	for i, hdr := range columns {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	tw.table.SetHeader(formattedHeaders)
	tw.table.SetRowLine(true)
	tw.table.SetCenterSeparator(faint("-"))
	tw.table.SetColumnSeparator(faint("|"))
	tw.table.SetRowSeparator(faint("-"))
	return tw, nil
}

func isSupported(column string) bool {
	switch strings.ToLower(column) {
	case strings.ToLower(config.ColumnSymbol),
		strings.ToLower(config.ColumnAddress),
		strings.ToLower(config.ColumnPrice),
		strings.ToLower(config.ColumnChain),
		strings.ToLower(config.ColumnUpdated):
		return true
	}
	return false
}

func (tw *tableWriter) highlightPrice(usd float64) string {
	if usd == 0 {
		// zero is what a failed lookup looks like
		return color.RedString(price.FormatUSD(usd))
	}
	return price.FormatUSD(usd)
}

func (tw *tableWriter) Render(symbolPriceList []*price.SymbolPrice) {
	tw.table.ClearRows()
	// Fill in data
	for _, sp := range symbolPriceList {
		var columns []string
		for _, hdr := range tw.columns {
			switch strings.ToLower(hdr) {
			case strings.ToLower(config.ColumnSymbol):
				columns = append(columns, sp.Symbol)
			case strings.ToLower(config.ColumnAddress):
				columns = append(columns, faint(sp.Address))
			case strings.ToLower(config.ColumnPrice):
				columns = append(columns, tw.highlightPrice(sp.Price))
			case strings.ToLower(config.ColumnChain):
				columns = append(columns, sp.Chain+"/"+sp.SpecificChain)
			case strings.ToLower(config.ColumnUpdated):
				columns = append(columns, sp.UpdateAt.Local().Format("15:04:05"))
			}
		}
		tw.table.Append(columns)
	}

	tw.table.Render()
	tw.Flush()
}
