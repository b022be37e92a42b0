package diffreport

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// reportCSS styles both the per-file diff pages and the index.
const reportCSS = `<style>
body{font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial;margin:20px;background:#0b0e11;color:#e6edf3}
a{color:#7aa2f7;text-decoration:none} a:hover{text-decoration:underline}
h1,h2{margin:.2rem 0 1rem 0}
ul{line-height:1.6}
table.diff{font-family:ui-monospace,Menlo,Consolas,monospace;border-collapse:collapse;border:1px solid #2d333b;width:100%}
table.diff th,table.diff td{border-right:1px solid #2d333b;padding:.25rem .5rem;vertical-align:top;white-space:pre-wrap;word-break:break-word}
td.diff_lineno{background:#11161c;color:#9aa4b2;text-align:right;user-select:none}
tr.diff_skip td{background:#11161c;color:#9aa4b2;text-align:center}
.diff_add{background:#0f2a18;color:#58d68d}
.diff_chg{background:#2a1e0f;color:#f5c46b}
.diff_sub{background:#2a1214;color:#ff7b72}
.meta{color:#9aa4b2;font-size:.95rem;margin-bottom:1rem}
</style>`

// row is one rendered table row: a line from each side, either of which
// may be absent.
type row struct {
	leftNo     int // 1-based, 0 when the side is empty
	rightNo    int
	leftText   string
	rightText  string
	leftClass  string
	rightClass string
	changed    bool
}

// pairRows folds the op stream into side-by-side rows, pairing each run
// of deletions with the insertions that follow it as changed lines.
func pairRows(ops []Op) []row {
	var rows []row
	leftNo, rightNo := 0, 0

	for i := 0; i < len(ops); {
		if ops[i].Kind == OpEqual {
			leftNo++
			rightNo++
			rows = append(rows, row{
				leftNo: leftNo, rightNo: rightNo,
				leftText: ops[i].Text, rightText: ops[i].Text,
			})
			i++
			continue
		}

		var deletes, inserts []string
		for i < len(ops) && ops[i].Kind == OpDelete {
			deletes = append(deletes, ops[i].Text)
			i++
		}
		for i < len(ops) && ops[i].Kind == OpInsert {
			inserts = append(inserts, ops[i].Text)
			i++
		}

		for j := 0; j < len(deletes) || j < len(inserts); j++ {
			r := row{changed: true}
			switch {
			case j < len(deletes) && j < len(inserts):
				r.leftClass, r.rightClass = "diff_chg", "diff_chg"
			case j < len(deletes):
				r.leftClass = "diff_sub"
			default:
				r.rightClass = "diff_add"
			}
			if j < len(deletes) {
				leftNo++
				r.leftNo = leftNo
				r.leftText = deletes[j]
			}
			if j < len(inserts) {
				rightNo++
				r.rightNo = rightNo
				r.rightText = inserts[j]
			}
			rows = append(rows, r)
		}
	}
	return rows
}

// contextRows keeps only rows within context lines of a change, with a
// skip marker between the kept groups. A non-positive context keeps
// everything.
func contextRows(rows []row, context int) []row {
	if context <= 0 {
		return rows
	}

	keep := make([]bool, len(rows))
	for i, r := range rows {
		if !r.changed {
			continue
		}
		lo := i - context
		if lo < 0 {
			lo = 0
		}
		hi := i + context
		if hi >= len(rows) {
			hi = len(rows) - 1
		}
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	var out []row
	skipped := false
	for i, r := range rows {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped && len(out) > 0 {
			out = append(out, row{leftNo: -1}) // skip marker
		}
		skipped = false
		out = append(out, r)
	}
	return out
}

func renderTable(rows []row) string {
	var sb strings.Builder
	sb.WriteString("<table class='diff'>\n")
	for _, r := range rows {
		if r.leftNo == -1 {
			sb.WriteString("<tr class='diff_skip'><td colspan='4'>&hellip;</td></tr>\n")
			continue
		}
		sb.WriteString("<tr>")
		writeCell(&sb, r.leftNo, r.leftText, r.leftClass)
		writeCell(&sb, r.rightNo, r.rightText, r.rightClass)
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>")
	return sb.String()
}

func writeCell(sb *strings.Builder, lineNo int, text, class string) {
	num := ""
	if lineNo > 0 {
		num = fmt.Sprintf("%d", lineNo)
	}
	fmt.Fprintf(sb, "<td class='diff_lineno'>%s</td>", num)
	if class != "" {
		fmt.Fprintf(sb, "<td class='%s'>%s</td>", class, html.EscapeString(text))
	} else {
		fmt.Fprintf(sb, "<td>%s</td>", html.EscapeString(text))
	}
}

// RenderPage renders one complete diff page.
func RenderPage(aLines, bLines []string, leftLabel, rightLabel string, context int) string {
	rows := contextRows(pairRows(DiffLines(aLines, bLines)), context)
	table := renderTable(rows)
	return fmt.Sprintf(
		"<!doctype html><meta charset='utf-8'><title>Diff: %s vs %s</title>%s"+
			"<h1>Diff</h1><div class='meta'>%s vs %s (&plusmn;%d lines of context)</div>%s",
		html.EscapeString(leftLabel), html.EscapeString(rightLabel), reportCSS,
		html.EscapeString(leftLabel), html.EscapeString(rightLabel), context, table,
	)
}

// Options configures report generation.
type Options struct {
	Context int      // lines of context around changes, default 3
	Names   []string // explicit filenames; empty means intersect *.txt
}

// Result summarizes a generated report.
type Result struct {
	Compared int
	Skipped  int
	Index    string // path of the written index.html
}

// Generate writes a diff page for every filename present in both
// leftDir and rightDir, plus an index.html linking them.
func Generate(leftDir, rightDir, outDir string, opts Options) (*Result, error) {
	context := opts.Context
	if context <= 0 {
		context = 3
	}

	names := opts.Names
	if len(names) == 0 {
		var err error
		names, err = sharedTxtNames(leftDir, rightDir)
		if err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, eris.Errorf("diffreport: no matching filenames between %s and %s", leftDir, rightDir)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "diffreport: create %s", outDir)
	}

	res := &Result{}
	var items []string
	for _, name := range names {
		aLines, aok := readLines(filepath.Join(leftDir, name))
		bLines, bok := readLines(filepath.Join(rightDir, name))
		if !aok || !bok {
			zap.L().Warn("skipping file missing on one side", zap.String("filename", name))
			res.Skipped++
			continue
		}

		page := RenderPage(aLines, bLines, name+" (pre)", name+" (post)", context)
		outFile := filepath.Join(outDir, name+".diff.html")
		if err := os.WriteFile(outFile, []byte(page), 0o644); err != nil {
			return res, eris.Wrapf(err, "diffreport: write %s", outFile)
		}
		res.Compared++
		items = append(items, fmt.Sprintf("<li><a href='%s'>%s</a></li>",
			html.EscapeString(name+".diff.html"), html.EscapeString(name)))
	}

	index := fmt.Sprintf(
		"<!doctype html><meta charset='utf-8'><title>Transcript diffs</title>%s"+
			"<h1>Transcript diffs</h1><div class='meta'>Left: %s<br>Right: %s</div><ul>%s</ul>",
		reportCSS, html.EscapeString(leftDir), html.EscapeString(rightDir),
		strings.Join(items, ""),
	)
	res.Index = filepath.Join(outDir, "index.html")
	if err := os.WriteFile(res.Index, []byte(index), 0o644); err != nil {
		return res, eris.Wrapf(err, "diffreport: write index")
	}

	zap.L().Info("diff report written",
		zap.Int("compared", res.Compared),
		zap.Int("skipped", res.Skipped),
		zap.String("index", res.Index),
	)
	return res, nil
}

func sharedTxtNames(leftDir, rightDir string) ([]string, error) {
	left, err := txtNames(leftDir)
	if err != nil {
		return nil, err
	}
	right, err := txtNames(rightDir)
	if err != nil {
		return nil, err
	}

	var shared []string
	for name := range left {
		if right[name] {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared, nil
}

func txtNames(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "diffreport: read dir %s", dir)
	}
	names := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names[entry.Name()] = true
		}
	}
	return names, nil
}

func readLines(path string) ([]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, true
	}
	return strings.Split(text, "\n"), true
}
