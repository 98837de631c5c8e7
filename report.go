package roi

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// StackScore is the scoring outcome of one stack.
type StackScore struct {
	Name string
	Categorization
	Metrics  StackMetrics
	Boundary BoundaryQuality
}

// Report is the outcome of one scoring run.
//
// Precision, Recall and F1 are unweighted means of the per-stack values, so a
// small stack counts as much as a large one. F1 is the mean of the per-stack
// F1 scores, not the F1 of the mean precision and recall. Boundary pools the
// pairs of every stack before computing statistics.
type Report struct {
	Stacks    []StackScore
	Precision float64
	Recall    float64
	F1        float64
	Boundary  BoundaryQuality
}

// BuildReport assembles pooled totals from per-stack scores.
// Without stacks the totals are 0 and boundary quality is undefined.
func BuildReport(scores []StackScore) *Report {
	r := &Report{Stacks: scores}

	r.Precision = lo.Mean(lo.Map(scores, func(s StackScore, _ int) float64 { return s.Metrics.Precision }))
	r.Recall = lo.Mean(lo.Map(scores, func(s StackScore, _ int) float64 { return s.Metrics.Recall }))
	r.F1 = lo.Mean(lo.Map(scores, func(s StackScore, _ int) float64 { return s.Metrics.F1 }))

	pairs := lo.FlatMap(scores, func(s StackScore, _ int) []Pair { return s.TruePositives })
	r.Boundary = ComputeBoundaryQuality(pairs)

	return r
}

// F1Scores returns the F1 score of each stack in input order.
func (r *Report) F1Scores() []float64 {
	return lo.Map(r.Stacks, func(s StackScore, _ int) float64 { return s.Metrics.F1 })
}

// Precisions returns the precision of each stack in input order.
func (r *Report) Precisions() []float64 {
	return lo.Map(r.Stacks, func(s StackScore, _ int) float64 { return s.Metrics.Precision })
}

// Recalls returns the recall of each stack in input order.
func (r *Report) Recalls() []float64 {
	return lo.Map(r.Stacks, func(s StackScore, _ int) float64 { return s.Metrics.Recall })
}

// BoundaryQualities returns the boundary quality of each stack in input order.
func (r *Report) BoundaryQualities() []BoundaryQuality {
	return lo.Map(r.Stacks, func(s StackScore, _ int) BoundaryQuality { return s.Boundary })
}

// String renders the report in a fixed line order suitable for score files.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("Total F1 Score      = " + formatFloat(r.F1) + "\n")
	b.WriteString("F1 Score per stack  = " + formatFloats(r.F1Scores()) + "\n")
	b.WriteString("Total Precision     = " + formatFloat(r.Precision) + "\n")
	b.WriteString("Precision per stack = " + formatFloats(r.Precisions()) + "\n")
	b.WriteString("Total Recall        = " + formatFloat(r.Recall) + "\n")
	b.WriteString("Recall per stack    = " + formatFloats(r.Recalls()) + "\n")
	b.WriteString("Overlap Boundary Quality, all stacks = " + r.Boundary.String() + "\n")

	qualities := lo.Map(r.BoundaryQualities(), func(q BoundaryQuality, _ int) string { return q.String() })
	b.WriteString("Overlap Boundary Quality, per stack  = [" + strings.Join(qualities, ", ") + "]\n\n")
	return b.String()
}

// WriteTo writes the text rendering to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

func (b BoundaryQuality) String() string {
	return "{mean precision: " + formatFloat(b.MeanPrecision) +
		", std precision: " + formatFloat(b.StdPrecision) +
		", mean recall: " + formatFloat(b.MeanRecall) +
		", std recall: " + formatFloat(b.StdRecall) + "}"
}

// MarshalJSON renders the report as a JSON document. Undefined boundary
// statistics are encoded as null.
func (r *Report) MarshalJSON() ([]byte, error) {
	stacks := make([]any, len(r.Stacks))
	for i, s := range r.Stacks {
		stacks[i] = map[string]any{
			"name":            s.Name,
			"true_positives":  s.Metrics.TruePositives,
			"false_positives": s.Metrics.FalsePositives,
			"false_negatives": s.Metrics.FalseNegatives,
			"precision":       s.Metrics.Precision,
			"recall":          s.Metrics.Recall,
			"f1":              s.Metrics.F1,
			"boundary":        boundaryValue(s.Boundary),
		}
	}

	doc, err := structpb.NewStruct(map[string]any{
		"f1":        r.F1,
		"precision": r.Precision,
		"recall":    r.Recall,
		"boundary":  boundaryValue(r.Boundary),
		"stacks":    stacks,
	})
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
}

func boundaryValue(b BoundaryQuality) map[string]any {
	v := map[string]any{
		"pairs":          b.Pairs,
		"mean_precision": nil,
		"std_precision":  nil,
		"mean_recall":    nil,
		"std_recall":     nil,
	}
	if b.Defined() {
		v["mean_precision"] = b.MeanPrecision
		v["std_precision"] = b.StdPrecision
		v["mean_recall"] = b.MeanRecall
		v["std_recall"] = b.StdRecall
	}
	return v
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloats(fs []float64) string {
	return "[" + strings.Join(lo.Map(fs, func(f float64, _ int) string { return formatFloat(f) }), ", ") + "]"
}
