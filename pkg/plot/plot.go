// Package plot renders actual vs predicted series through gnuplot.
//
// Rendering is a terminal side effect: nothing is returned beyond the error.
// The forecast package talks to this through its Plotter interface, so tests
// swap in a recorder instead of a real gnuplot process.
package plot

import (
	"errors"
	"fmt"
	"time"

	"github.com/Arafatk/glot"

	"github.com/epiforge/epicurve/pkg/series"
)

// ErrNothingToPlot is returned when both series are empty.
var ErrNothingToPlot = errors.New("nothing to plot")

// Gnuplot draws with an external gnuplot process via glot.
type Gnuplot struct {
	// Persist keeps the gnuplot window open after the process exits.
	Persist bool

	// SavePath, when set, writes the plot to a file instead of a window.
	SavePath string
}

// Plot renders the actual series, truncated to the predicted series' date
// range, overlaid with the prediction. Implements forecast.Plotter.
func (g *Gnuplot) Plot(actual, predicted series.Series, title string) error {
	if actual.Len() == 0 && predicted.Len() == 0 {
		return ErrNothingToPlot
	}

	shown := actual
	if predicted.Len() > 0 {
		end, _ := predicted.Last()
		shown = actual.UpTo(end)
	}

	p, err := glot.NewPlot(2, g.Persist, false)
	if err != nil {
		return fmt.Errorf("start gnuplot: %w", err)
	}

	p.SetTitle(title)
	p.SetXLabel("days")
	p.SetYLabel("cumulative count")

	// Shared x origin so both traces line up on one axis.
	origin := shown.Dates
	if shown.Len() == 0 {
		origin = predicted.Dates
	}
	epoch := origin[0]

	if shown.Len() > 0 {
		if err := p.AddPointGroup("actual", "lines", toXY(shown, epoch)); err != nil {
			return fmt.Errorf("add actual: %w", err)
		}
	}
	if predicted.Len() > 0 {
		if err := p.AddPointGroup("predicted", "points", toXY(predicted, epoch)); err != nil {
			return fmt.Errorf("add predicted: %w", err)
		}
	}

	if g.SavePath != "" {
		if err := p.SavePlot(g.SavePath); err != nil {
			return fmt.Errorf("save plot: %w", err)
		}
	}
	return nil
}

// toXY converts a series to glot's [][]float64 shape, with x measured in
// days since epoch.
func toXY(s series.Series, epoch time.Time) [][]float64 {
	x := make([]float64, s.Len())
	for i, d := range s.Dates {
		x[i] = d.Sub(epoch).Hours() / 24
	}
	return [][]float64{x, s.Values}
}
