package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/jpalmerr/sbomstatus"
)

const progressWidth = 30

// ProgressPrinter prints one progress line per poll attempt.
type ProgressPrinter struct {
	w   io.Writer
	bar progress.Model
}

// NewProgressPrinter returns a [ProgressPrinter] writing to w.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{
		w: w,
		bar: progress.New(
			progress.WithSolidFill(string(colorGreen)),
			progress.WithWidth(progressWidth),
		),
	}
}

// Print writes the progress line for pr. It matches the callback signature
// expected by [sbomstatus.WithProgressCallback].
func (pp *ProgressPrinter) Print(pr sbomstatus.Progress) {
	obs := pr.Observation
	_, _ = fmt.Fprintf(pp.w, "%s  attempt %d/%d  upload: %s  additional info: %s\n",
		pp.bar.ViewAs(pr.Fraction()),
		pr.Attempt, pr.MaxAttempts,
		valueOr(string(obs.UploadStatus)),
		valueOr(string(obs.AdditionalInfoStatus)),
	)
}
