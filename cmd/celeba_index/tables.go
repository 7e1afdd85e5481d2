// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)

	headerStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 2).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failedStyle = cellStyle.Foreground(lipgloss.Color("9")).Bold(true)
)

// reportTable renders rows of cells, with the first column right-aligned and the rest left-aligned.
// Rows flagged as failed are highlighted in red, and the others alternate faint and normal text.
type reportTable struct {
	*lgtable.Table
	failed []bool
}

// newTable creates a reportTable, with the given headers, if any.
func newTable(headers ...string) *reportTable {
	t := &reportTable{}
	t.Table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(t.style)
	if len(headers) > 0 {
		t.Headers(headers...)
	}
	return t
}

// Row appends a row of cells, highlighted if failed.
func (t *reportTable) Row(failed bool, cells ...string) {
	t.failed = append(t.failed, failed)
	t.Table.Row(cells...)
}

func (t *reportTable) style(row, col int) lipgloss.Style {
	if row == lgtable.HeaderRow {
		return headerStyle
	}
	s := cellStyle.Faint(row%2 == 1)
	if row < len(t.failed) && t.failed[row] {
		s = failedStyle
	}
	if col == 0 {
		return s.Align(lipgloss.Right)
	}
	return s.Align(lipgloss.Left)
}
