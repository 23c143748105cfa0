package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/adelossa/pregame/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Reporter escribiendo a stdout, con export CSV
// opcional.
type Console struct {
	out     io.Writer
	csvPath string
	audit   bool
}

// NewConsole crea un reporter de consola. Si csvPath no está vacío, además
// exporta el record set tabular a ese archivo.
func NewConsole(csvPath string, audit bool) *Console {
	return &Console{out: os.Stdout, csvPath: csvPath, audit: audit}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, audit bool) *Console {
	return &Console{out: w, audit: audit}
}

// Report imprime la tabla de partidos, el resumen de accuracy y los
// warnings de auditoría.
func (c *Console) Report(_ context.Context, records []domain.MatchRecord, accuracy domain.AccuracyReport, auditWarnings []string) error {
	if len(records) == 0 {
		fmt.Fprintf(c.out, "[%s] no collated matches\n", time.Now().Format("15:04:05"))
		return nil
	}

	c.printTable(records)
	c.printAccuracy(accuracy)

	if c.audit {
		c.printAudit(auditWarnings)
	}

	if c.csvPath != "" {
		if err := WriteCSV(c.csvPath, records); err != nil {
			return fmt.Errorf("report.Report: %w", err)
		}
		fmt.Fprintf(c.out, "\n  CSV written to %s (%d rows)\n", c.csvPath, len(records))
	}

	return nil
}

// printTable imprime un partido por fila con los precios pre-partido y
// realizados de los tres legs YES.
func (c *Console) printTable(records []domain.MatchRecord) {
	fmt.Fprintf(c.out, "\n%d collated matches\n", len(records))

	table := tablewriter.NewWriter(c.out)
	table.Header("Kickoff", "Match", "1 pre", "X pre", "2 pre", "1 res", "X res", "2 res")

	for i := range records {
		r := &records[i]
		table.Append(
			r.KickOff.Format("2006-01-02 15:04"),
			fmt.Sprintf("%s vs %s", r.FirstTeam, r.SecondTeam),
			preLabel(r.FirstWinYes),
			preLabel(r.DrawYes),
			preLabel(r.SecondWinYes),
			fmt.Sprintf("%.2f", r.FirstWinYes.ClosePrice),
			fmt.Sprintf("%.2f", r.DrawYes.ClosePrice),
			fmt.Sprintf("%.2f", r.SecondWinYes.ClosePrice),
		)
	}

	table.Render()
	fmt.Fprintln(c.out, "  1/X/2 = first wins / draw / second wins | pre = pre-game | res = resolved")
}

// printAccuracy imprime el veredicto del batch.
func (c *Console) printAccuracy(a domain.AccuracyReport) {
	if a.Evaluated == 0 {
		fmt.Fprintf(c.out, "\n  No matches with complete pre-game prices — accuracy not computable\n")
		if a.Skipped > 0 {
			fmt.Fprintf(c.out, "  (%d matches skipped for missing data)\n", a.Skipped)
		}
		return
	}

	fmt.Fprintf(c.out, "\n  Accuracy: %.3f (%d/%d matches fully predicted", a.Accuracy, a.Correct, a.Evaluated)
	if a.Skipped > 0 {
		fmt.Fprintf(c.out, ", %d skipped for missing data", a.Skipped)
	}
	fmt.Fprintf(c.out, ")\n")
}

// printAudit lista las preguntas que parecen partidos pero fallaron el
// parseo estricto — posibles falsos negativos, solo para revisión manual.
func (c *Console) printAudit(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(c.out, "\n  Audit: no near-miss questions\n")
		return
	}

	fmt.Fprintf(c.out, "\n  Audit: %d questions look like matches but failed strict parsing:\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(c.out, "    - %s\n", w)
	}
}

// preLabel formatea un precio pre-partido; el dato ausente se muestra como
// "-", nunca como 0.00.
func preLabel(leg domain.RecordLeg) string {
	if !leg.HasPre {
		return "-"
	}
	return fmt.Sprintf("%.2f", leg.PrePrice)
}
