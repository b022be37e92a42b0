package annotate

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/config"
	"github.com/oral-history-lab/transcript-cli/internal/metadata"
	"github.com/oral-history-lab/transcript-cli/internal/model"
	"github.com/oral-history-lab/transcript-cli/internal/store"
	"github.com/oral-history-lab/transcript-cli/pkg/anthropic"
)

// GenderAnnotator runs the gender classification pass over a scrape CSV.
type GenderAnnotator struct {
	Client anthropic.Client
	Store  store.Store
	Cfg    config.AnnotateConfig
}

// GenderResult summarizes a completed gender run.
type GenderResult struct {
	Total          int
	Processed      int
	Skipped        int
	Reused         int // served from the store checkpoint, no API calls
	Male           int
	Female         int
	Unknown        int
	HighConfidence int // confidence ratio of 2/3 or better
	Usage          anthropic.TokenUsage
}

// Run classifies every interview in metadataCSV and writes the results
// to outputCSV. An existing output file is loaded first: rows that
// already carry a prediction are kept and skipped, and predictions
// checkpointed in the store are reused without new API calls, so
// interrupted runs resume where they stopped even when the CSV is gone.
// Progress is checkpointed to outputCSV every Cfg.CheckpointEvery
// interviews.
func (a *GenderAnnotator) Run(ctx context.Context, metadataCSV, transcriptDir, outputCSV string) (*GenderResult, error) {
	table, err := metadata.ReadTable(metadataCSV)
	if err != nil {
		return nil, err
	}
	fnCol, err := table.FilenameColumn()
	if err != nil {
		return nil, err
	}

	rows, done, err := loadGenderCheckpoint(outputCSV)
	if err != nil {
		return nil, err
	}

	res := &GenderResult{Total: len(table.Rows), Skipped: len(done)}
	zap.L().Info("starting gender annotation",
		zap.Int("total", res.Total),
		zap.Int("already_processed", len(done)),
	)

	voter := &Voter{Client: a.Client, Model: a.Cfg.Model, Queries: a.Cfg.VoteQueries}
	checkpointEvery := a.Cfg.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = 50
	}
	queries := voter.Queries
	if queries <= 0 {
		queries = 3
	}

	sinceCheckpoint := 0
	for i, metaRow := range table.Rows {
		if err := ctx.Err(); err != nil {
			// Keep whatever we have before bailing out.
			if werr := writeGenderCSV(outputCSV, rows); werr != nil {
				zap.L().Error("checkpoint write failed", zap.Error(werr))
			}
			return res, eris.Wrap(err, "annotate: gender run interrupted")
		}

		filename := metaRow[fnCol]
		if done[filename] {
			continue
		}

		if a.Store != nil {
			var saved model.GenderRow
			found, err := a.Store.GetAnnotation(ctx, store.KindGender, filename, &saved)
			if err != nil {
				zap.L().Warn("store read failed", zap.String("filename", filename), zap.Error(err))
			} else if found && saved.Annotated() {
				rows = append(rows, saved)
				res.Reused++
				continue
			}
		}

		row := model.GenderRow{
			Filename:      filename,
			Interviewee:   table.Get(i, "interviewee"),
			RGNumber:      table.Get(i, "rg_number"),
			InterviewDate: table.Get(i, "interview_date"),
		}

		snippet, err := ReadFirstLines(filepath.Join(transcriptDir, filename), a.snippetLines())
		if err != nil {
			return nil, err
		}
		if snippet == "" {
			zap.L().Warn("no transcript content", zap.String("filename", filename))
			rows = append(rows, row)
			res.Processed++
			continue
		}

		gender, confidence, err := voter.Vote(ctx, row.Interviewee, snippet)
		if err != nil {
			if werr := writeGenderCSV(outputCSV, rows); werr != nil {
				zap.L().Error("checkpoint write failed", zap.Error(werr))
			}
			return res, err
		}
		row.PredictedGender = gender
		row.ConfidenceCount = confidence
		row.ConfidenceRatio = float64(confidence) / float64(queries)

		rows = append(rows, row)
		res.Processed++
		sinceCheckpoint++

		zap.L().Info("annotated interview",
			zap.Int("index", i+1),
			zap.Int("total", res.Total),
			zap.String("filename", filename),
			zap.String("gender", string(gender)),
			zap.Int("confidence", confidence),
		)

		if a.Store != nil && row.Annotated() {
			if err := a.Store.SaveAnnotation(ctx, store.KindGender, filename, row); err != nil {
				zap.L().Warn("store checkpoint failed", zap.String("filename", filename), zap.Error(err))
			}
		}

		if sinceCheckpoint >= checkpointEvery {
			if err := writeGenderCSV(outputCSV, rows); err != nil {
				return res, err
			}
			zap.L().Info("checkpoint saved",
				zap.Int("rows", len(rows)),
				zap.String("output", outputCSV),
			)
			sinceCheckpoint = 0
		}
	}

	if err := writeGenderCSV(outputCSV, rows); err != nil {
		return res, err
	}

	for _, row := range rows {
		switch row.PredictedGender {
		case model.GenderMale:
			res.Male++
		case model.GenderFemale:
			res.Female++
		default:
			res.Unknown++
		}
		if row.ConfidenceRatio >= 0.67 {
			res.HighConfidence++
		}
	}

	res.Usage = voter.Usage
	res.Usage.LogUsage(a.Cfg.Model, "gender")
	zap.L().Info("gender annotation complete",
		zap.Int("total", len(rows)),
		zap.Int("reused", res.Reused),
		zap.Int("male", res.Male),
		zap.Int("female", res.Female),
		zap.Int("unknown", res.Unknown),
		zap.Int("high_confidence", res.HighConfidence),
	)
	return res, nil
}

func (a *GenderAnnotator) snippetLines() int {
	if a.Cfg.SnippetLines > 0 {
		return a.Cfg.SnippetLines
	}
	return 20
}

// loadGenderCheckpoint reads an existing output CSV, returning its rows
// and the set of filenames that already have a prediction.
func loadGenderCheckpoint(path string) ([]model.GenderRow, map[string]bool, error) {
	done := make(map[string]bool)
	if _, err := os.Stat(path); err != nil {
		return nil, done, nil
	}

	table, err := metadata.ReadTable(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "annotate: load checkpoint %s", path)
	}

	var rows []model.GenderRow
	for i := range table.Rows {
		row := model.GenderRow{
			Filename:        table.Get(i, "filename"),
			Interviewee:     table.Get(i, "interviewee"),
			PredictedGender: model.Gender(table.Get(i, "predicted_gender")),
			RGNumber:        table.Get(i, "rg_number"),
			InterviewDate:   table.Get(i, "interview_date"),
		}
		if n, err := strconv.Atoi(table.Get(i, "confidence_count")); err == nil {
			row.ConfidenceCount = n
		}
		if f, err := strconv.ParseFloat(table.Get(i, "confidence_ratio"), 64); err == nil {
			row.ConfidenceRatio = f
		}

		// Rows without a prediction are dropped so they run again.
		if !row.Annotated() {
			continue
		}
		rows = append(rows, row)
		done[row.Filename] = true
	}
	return rows, done, nil
}

func writeGenderCSV(path string, rows []model.GenderRow) error {
	table := &metadata.Table{Header: model.GenderHeader}
	for _, row := range rows {
		table.Rows = append(table.Rows, row.CSVRecord())
	}
	return table.WriteTable(path)
}
