package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nbclass/text-classifier/pkg/evaluation"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	reportHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86")).
				Padding(0, 1)

	reportCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// Diagonal of the confusion matrix
	reportHitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 1)

	reportSubtleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// renderReport formats evaluation metrics as styled terminal tables
func renderReport(m *evaluation.Metrics, trainSize, testSize int) string {
	var b strings.Builder

	b.WriteString(reportTitleStyle.Render("📊 Evaluation Report"))
	b.WriteString("\n")
	b.WriteString(reportSubtleStyle.Render(fmt.Sprintf("train %d documents, test %d documents", trainSize, testSize)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Accuracy: %.2f%% (%d/%d)\n\n", m.Accuracy*100, m.Correct, m.Total)

	if len(m.Categories) == 0 {
		b.WriteString(reportSubtleStyle.Render("empty test set, nothing to report"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(reportTitleStyle.Render("Per-category metrics"))
	b.WriteString("\n")
	b.WriteString(metricsTable(m).Render())
	b.WriteString("\n\n")

	b.WriteString(reportTitleStyle.Render("Confusion matrix (rows: true, columns: predicted)"))
	b.WriteString("\n")
	b.WriteString(confusionTable(m).Render())
	b.WriteString("\n")

	return b.String()
}

func metricsTable(m *evaluation.Metrics) *table.Table {
	rows := make([][]string, 0, len(m.Categories)+1)
	for _, category := range m.Categories {
		rows = append(rows, []string{
			category,
			percent(m.Precision[category]),
			percent(m.Recall[category]),
			percent(m.F1Score[category]),
		})
	}
	macro := m.MacroAverages()
	rows = append(rows, []string{
		"macro avg",
		percent(macro["precision"]),
		percent(macro["recall"]),
		percent(macro["f1_score"]),
	})

	last := len(rows) - 1

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(reportSubtleStyle).
		Headers("Category", "Precision", "Recall", "F1").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return reportHeaderStyle
			case row == last:
				return reportCellStyle.Bold(true)
			default:
				return reportCellStyle
			}
		})
}

func confusionTable(m *evaluation.Metrics) *table.Table {
	headers := append([]string{"true \\ predicted"}, m.Categories...)

	rows := make([][]string, len(m.Categories))
	for i, actual := range m.Categories {
		row := make([]string, 0, len(m.Categories)+1)
		row = append(row, actual)
		for _, predicted := range m.Categories {
			row = append(row, strconv.Itoa(m.Count(actual, predicted)))
		}
		rows[i] = row
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(reportSubtleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow || col == 0:
				return reportHeaderStyle
			case row == col-1:
				return reportHitStyle
			default:
				return reportCellStyle
			}
		})
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
