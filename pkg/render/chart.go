package render

import (
	"math"
	"os"

	"flyerhunt/pkg/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Chart writes a standalone HTML bar chart of the deals that have a
// unit price, in ranking order.
func Chart(path string, deals []models.Deal) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Deals by unit price (EUR/L)"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	var x []string
	var y []opts.BarData
	for _, d := range deals {
		if d.PricePerLitre == nil {
			continue
		}
		x = append(x, Truncate(d.Name, 30))
		y = append(y, opts.BarData{Value: math.Round(*d.PricePerLitre*100) / 100})
	}
	bar.SetXAxis(x).AddSeries("EUR/L", y)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return bar.Render(f)
}
