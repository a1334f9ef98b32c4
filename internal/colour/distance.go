// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Metric measures the distance between two colours. The pipeline treats the
// metric as opaque: any non-negative, symmetric measure works. Note that the
// scale differs between metrics (Euclidean spans [0, ~441], the perceptual
// metrics roughly [0, 1]), so distance thresholds must be chosen per metric.
type Metric interface {
	Distance(a, b RGB) float64
	Name() string
}

// MetricNames returns the recognised metric names.
func MetricNames() []string {
	return []string{"euclidean", "lab", "luv"}
}

// ParseMetric resolves a metric by name.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "euclidean", "":
		return Euclidean{}, nil
	case "lab":
		return labMetric{}, nil
	case "luv":
		return luvMetric{}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q (valid: %v): %w", name, MetricNames(), ErrInvalidInput)
	}
}

// Euclidean is the default metric: straight-line distance in RGB space.
type Euclidean struct{}

// Distance returns the Euclidean distance between two colours in RGB space.
func (Euclidean) Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Name returns the metric name.
func (Euclidean) Name() string { return "euclidean" }

// labMetric measures distance in CIE L*a*b* space, which tracks perceived
// colour difference more closely than raw RGB.
type labMetric struct{}

func (labMetric) Distance(a, b RGB) float64 {
	return toColorful(a).DistanceLab(toColorful(b))
}

func (labMetric) Name() string { return "lab" }

// luvMetric measures distance in CIE L*u*v* space.
type luvMetric struct{}

func (luvMetric) Distance(a, b RGB) float64 {
	return toColorful(a).DistanceLuv(toColorful(b))
}

func (luvMetric) Name() string { return "luv" }

// toColorful converts an 8-bit RGB colour to go-colorful's [0, 1] form.
func toColorful(c RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}
