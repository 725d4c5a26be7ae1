package utils

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"image"
)

// PlotPerformance draws a line plot of instructions per second
// samples, one per second, into a width x height image.
func PlotPerformance(samples []float64, width, height int) (*image.RGBA, error) {
	p := plot.New()
	p.Title.Text = "Instructions Per Second"
	p.X.Label.Text = "Seconds"
	p.Y.Label.Text = "IPS"
	p.Y.Min = 0

	points := make(plotter.XYs, len(samples))
	for i, s := range samples {
		points[i].X = float64(i)
		points[i].Y = s
	}
	if len(points) > 0 {
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}
		p.Add(line)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := vgimg.NewWith(vgimg.UseImage(img))
	p.Draw(draw.New(c))

	return img, nil
}
