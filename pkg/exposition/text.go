package exposition

import (
	"io"
	"math"
	"strconv"
	"strings"

	"mercator-hq/ganymede/pkg/metrics"
)

// ContentType is the MIME type of the text exposition format.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// Write renders snap into the text exposition format. Output order is
// deterministic: the snapshot carries families sorted by name and series
// sorted by canonical label string, and Write preserves that order.
//
// An empty snapshot produces no output and no error.
func Write(w io.Writer, snap metrics.Snapshot) error {
	tw := &textWriter{w: w}
	for _, fam := range snap.Families {
		writeFamily(tw, fam)
	}
	return tw.err
}

func writeFamily(tw *textWriter, fam metrics.FamilySnapshot) {
	tw.writeString("# HELP ")
	tw.writeString(fam.Name)
	tw.writeByte(' ')
	tw.writeString(escapeHelp(fam.Help))
	tw.writeByte('\n')

	tw.writeString("# TYPE ")
	tw.writeString(fam.Name)
	tw.writeByte(' ')
	tw.writeString(fam.Type.String())
	tw.writeByte('\n')

	for _, s := range fam.Series {
		if fam.Type == metrics.HistogramType {
			writeHistogramSeries(tw, fam.Name, s)
			continue
		}
		writeLabels(tw, fam.Name, "", s.Labels, "", "")
		tw.writeByte(' ')
		tw.writeString(formatValue(s.Value))
		tw.writeByte('\n')
	}
}

func writeHistogramSeries(tw *textWriter, name string, s metrics.SeriesSnapshot) {
	for _, b := range s.Buckets {
		writeLabels(tw, name, "_bucket", s.Labels, "le", formatBound(b.UpperBound))
		tw.writeByte(' ')
		tw.writeString(strconv.FormatUint(b.CumulativeCount, 10))
		tw.writeByte('\n')
	}

	writeLabels(tw, name, "_sum", s.Labels, "", "")
	tw.writeByte(' ')
	tw.writeString(formatValue(s.Sum))
	tw.writeByte('\n')

	writeLabels(tw, name, "_count", s.Labels, "", "")
	tw.writeByte(' ')
	tw.writeString(strconv.FormatUint(s.Count, 10))
	tw.writeByte('\n')
}

// writeLabels emits the metric name (plus suffix) and the label block.
// The braces are omitted entirely when there are no labels to write.
// extraName/extraValue append a synthetic label such as le.
func writeLabels(tw *textWriter, name, suffix string, labels metrics.LabelSet, extraName, extraValue string) {
	tw.writeString(name)
	tw.writeString(suffix)

	pairs := labels.Pairs()
	if len(pairs) == 0 && extraName == "" {
		return
	}

	tw.writeByte('{')
	for i, p := range pairs {
		if i > 0 {
			tw.writeByte(',')
		}
		tw.writeString(p.Name)
		tw.writeString(`="`)
		tw.writeString(escapeLabelValue(p.Value))
		tw.writeByte('"')
	}
	if extraName != "" {
		if len(pairs) > 0 {
			tw.writeByte(',')
		}
		tw.writeString(extraName)
		tw.writeString(`="`)
		tw.writeString(escapeLabelValue(extraValue))
		tw.writeByte('"')
	}
	tw.writeByte('}')
}

var (
	helpEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	// Label values additionally escape double quotes, since they are quoted.
	labelValueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)
)

func escapeHelp(help string) string {
	return helpEscaper.Replace(help)
}

func escapeLabelValue(value string) string {
	return labelValueEscaper.Replace(value)
}

// formatValue renders a sample value: decimal for ordinary magnitudes,
// scientific notation for magnitude >= 1e15 or nonzero < 1e-6, and the
// exposition spellings of NaN and the infinities.
func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e15 || abs < 1e-6) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatBound renders a bucket upper bound for the le label.
func formatBound(bound float64) string {
	return formatValue(bound)
}

// textWriter wraps an io.Writer with a sticky error, so the render path
// reads as straight-line code. An error here means the underlying writer
// failed; the serializer itself has no failure modes.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) writeString(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = io.WriteString(tw.w, s)
}

func (tw *textWriter) writeByte(b byte) {
	if tw.err != nil {
		return
	}
	_, tw.err = tw.w.Write([]byte{b})
}
