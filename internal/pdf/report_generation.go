package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"workhub/internal/models"
)

// Generator produces report files and returns their absolute paths.
type Generator interface {
	GenerateTaskReport(task models.Task) (string, error)
	GenerateLeaderboardReport(users []*models.User, at time.Time) (string, error)
}

type ReportGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	FontPath string // optional TTF; falls back to Helvetica when empty
	fontName string
}

func NewReportGenerator(rootDir, fontPath string) *ReportGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "Custom"
	}
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: name,
	}
}

func (g *ReportGenerator) GenerateTaskReport(task models.Task) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("task_report_%s.pdf", task.ID))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Task report: %s", task.Title), false)
	pdf.SetAuthor("WorkHub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addFont(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TASK REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, task.Title, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s    Priority: %s", task.Status, task.Priority), "", 1, "C", false, 0, "")
	g.hr(pdf)

	// module table
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(70, 8, "Module", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Retries", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 8, "Assignees", "1", 1, "L", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	for _, m := range task.Modules {
		pdf.CellFormat(70, 8, m.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, string(m.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", m.RetryCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%d", len(m.AssigneeIDs)), "1", 1, "L", false, 0, "")
	}

	if task.CompletedAt != nil {
		pdf.Ln(6)
		pdf.CellFormat(0, 7, fmt.Sprintf("Completed at %s", task.CompletedAt.Format("02.01.2006 15:04")), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write task report: %w", err)
	}
	return absPath, nil
}

func (g *ReportGenerator) GenerateLeaderboardReport(users []*models.User, at time.Time) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("leaderboard_%s.pdf", at.Format("20060102")))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Leaderboard", false)
	pdf.SetAuthor("WorkHub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addFont(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "LEADERBOARD", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, at.Format("02.01.2006"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(15, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(75, 8, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Rating", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Points", "1", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	for i, u := range users {
		pdf.CellFormat(15, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(75, 8, u.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f (%d)", u.RatingScore, u.RatingCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", u.Points), "1", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write leaderboard report: %w", err)
	}
	return absPath, nil
}

func (g *ReportGenerator) addFont(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pdf.SetLineWidth(0.3)
	pdf.Line(x, y, 190, y)
	pdf.Ln(4)
}
