package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// priceBucket counts listings whose price falls in [Lo, Hi).
// The last bucket also holds Hi.
type priceBucket struct {
	Lo, Hi float64
	Rent   int
	Buy    int
}

// priceBuckets splits the price range of listings into n equal-width buckets.
func priceBuckets(listings []model.Listing, n int) []priceBucket {
	if len(listings) == 0 || n <= 0 {
		return nil
	}

	lo, hi := listings[0].Price, listings[0].Price
	for _, l := range listings[1:] {
		lo = min(lo, l.Price)
		hi = max(hi, l.Price)
	}
	if hi == lo {
		n = 1
	}

	step := (hi - lo) / float64(n)
	buckets := make([]priceBucket, n)
	for i := range buckets {
		buckets[i].Lo = lo + float64(i)*step
		buckets[i].Hi = lo + float64(i+1)*step
	}
	buckets[n-1].Hi = hi

	for _, l := range listings {
		idx := 0
		if step > 0 {
			idx = int((l.Price - lo) / step)
		}
		if idx >= n {
			idx = n - 1
		}
		if l.IsRental() {
			buckets[idx].Rent++
		} else {
			buckets[idx].Buy++
		}
	}
	return buckets
}

// compactPrice abbreviates a price for axis labels.
func compactPrice(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// renderPriceChart draws a stacked rent/buy histogram of listing prices.
func renderPriceChart(listings []model.Listing, width, height int) string {
	style := sectionStyle.Width(width - 2).Height(height - 2)
	title := chartTitleStyle.Render("Price distribution")

	chartWidth := width - 4
	chartHeight := height - 6
	if chartWidth < 8 || chartHeight < 2 || len(listings) == 0 {
		return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, helpStyle.Render("No data")))
	}

	n := min(8, max(1, chartWidth/4))
	buckets := priceBuckets(listings, n)
	barWidth := max(1, (chartWidth-(len(buckets)-1))/len(buckets))

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)

	rentStyle := lipgloss.NewStyle().Foreground(typeColor(model.TypeRent)).Background(typeColor(model.TypeRent))
	buyStyle := lipgloss.NewStyle().Foreground(typeColor(model.TypeBuy)).Background(typeColor(model.TypeBuy))

	for _, b := range buckets {
		bc.Push(barchart.BarData{
			Label: compactPrice(b.Lo),
			Values: []barchart.BarValue{
				{Name: model.TypeRent, Value: float64(b.Rent), Style: rentStyle},
				{Name: model.TypeBuy, Value: float64(b.Buy), Style: buyStyle},
			},
		})
	}

	bc.Draw()

	first, last := buckets[0], buckets[len(buckets)-1]
	axis := lipgloss.NewStyle().Foreground(ColorGray).Render(
		padBetween(compactPrice(first.Lo), compactPrice(last.Hi), chartWidth),
	)
	legend := fmt.Sprintf("%s rent  %s buy",
		lipgloss.NewStyle().Foreground(typeColor(model.TypeRent)).Render("■"),
		lipgloss.NewStyle().Foreground(typeColor(model.TypeBuy)).Render("■"),
	)

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, bc.View(), axis, legend))
}

// padBetween places left and right at the edges of a width-wide line.
func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
