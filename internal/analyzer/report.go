package analyzer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcncl/treegen/internal/models"
	"github.com/olekukonko/tablewriter"
)

// WriteReport renders stats as a two-column table.
func WriteReport(w io.Writer, stats models.TreeStats) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Metric", "Value"})
	t.SetBorder(false)
	t.SetColumnSeparator(" ")
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)

	t.Append([]string{"root", fmt.Sprintf("%s (%d)", stats.RootKind, stats.RootWidth)})
	t.Append([]string{"nodes", strconv.Itoa(stats.Nodes)})
	t.Append([]string{"max nesting", strconv.Itoa(stats.MaxNesting)})
	for _, kind := range models.AllKinds() {
		t.Append([]string{kind.String() + " values", strconv.Itoa(stats.Count(kind))})
	}
	t.Append([]string{"mapping width", rangeCell(stats.MinMappingWidth, stats.MaxMappingWidth)})
	t.Append([]string{"sequence length", rangeCell(stats.MinSequenceLength, stats.MaxSequenceLength)})
	t.Append([]string{"string length", rangeCell(stats.MinStringLength, stats.MaxStringLength)})
	if len(stats.DuplicateKeys) > 0 {
		t.Append([]string{"duplicate keys", strings.Join(stats.DuplicateKeys, ", ")})
	}

	t.Render()
}

func rangeCell(lo, hi int) string {
	if lo == 0 && hi == 0 {
		return "-"
	}
	return fmt.Sprintf("%d..%d", lo, hi)
}
