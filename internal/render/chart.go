// Package render draws the price-distribution chart as a standalone SVG
// document. The curve is a stylistic bell shape bracketing the predicted
// range, not a fitted density: its geometry depends only on the fixed canvas
// constants, so the output for a given {min, max} pair is byte-identical on
// every call.
package render

import (
	"fmt"
	"math"
	"strings"

	"houseprice/internal/model"
	"houseprice/internal/utils"
)

// Fixed canvas geometry. The curve occupies 80% of the drawable area.
const (
	chartWidth   = 300.0
	chartHeight  = 150.0
	chartPadding = 20.0

	curveShape = 0.2 // denominator of the Gaussian exponent

	markerHeightFraction = 0.4 // min/max markers are subordinate to the average
	markerInsetFraction  = 0.1 // distance of min/max markers from the curve edges
)

// Chart renders the distribution for a validated price bracket. The inputs
// must be finite, non-negative and ordered; anything else is rejected with
// InvalidRangeError rather than clamped.
func Chart(minPrice, maxPrice float64) (string, error) {
	if !validPrice(minPrice) || !validPrice(maxPrice) || minPrice > maxPrice {
		return "", &model.InvalidRangeError{Min: minPrice, Max: maxPrice}
	}

	graphWidth := chartWidth - chartPadding*2
	graphHeight := chartHeight - chartPadding*2
	bellWidth := graphWidth * 0.8
	bellHeight := graphHeight * 0.8
	centerX := chartWidth / 2
	baseY := chartPadding + graphHeight

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	b.WriteString(`<defs><linearGradient id="band" x1="0" y1="0" x2="1" y2="0">` +
		`<stop offset="0" stop-color="rgb(96,165,250)" stop-opacity="0.7"/>` +
		`<stop offset="0.5" stop-color="rgb(59,130,246)" stop-opacity="0.8"/>` +
		`<stop offset="1" stop-color="rgb(96,165,250)" stop-opacity="0.7"/>` +
		`</linearGradient></defs>`)

	// Bell curve path, 1px horizontal steps like the original canvas loop
	b.WriteString(`<path d="`)
	fmt.Fprintf(&b, "M %s %s", coord(centerX-bellWidth/2), coord(baseY))
	for x := -bellWidth / 2; x <= bellWidth/2; x++ {
		normalized := x / (bellWidth / 2)
		y := math.Exp(-(normalized*normalized)/curveShape) * bellHeight
		fmt.Fprintf(&b, " L %s %s", coord(centerX+x), coord(baseY-y))
	}
	fmt.Fprintf(&b, " L %s %s Z", coord(centerX+bellWidth/2), coord(baseY))
	b.WriteString(`" fill="url(#band)" stroke="rgba(30,64,175,0.6)" stroke-width="2"/>`)

	minX := centerX - bellWidth/2 + bellWidth*markerInsetFraction
	maxX := centerX + bellWidth/2 - bellWidth*markerInsetFraction
	markerTop := baseY - bellHeight*markerHeightFraction

	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(30,64,175,0.8)"/>`,
		coord(minX), coord(baseY), coord(minX), coord(markerTop))
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(30,64,175,0.8)"/>`,
		coord(maxX), coord(baseY), coord(maxX), coord(markerTop))
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(220,38,38,0.8)" stroke-width="2"/>`,
		coord(centerX), coord(baseY), coord(centerX), coord(baseY-bellHeight))

	// Marker captions under the baseline
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="hanging" font-family="Arial" font-size="12" fill="#1E40AF">Min</text>`,
		coord(minX), coord(baseY+5))
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="hanging" font-family="Arial" font-size="12" fill="#1E40AF">Max</text>`,
		coord(maxX), coord(baseY+5))
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="hanging" font-family="Arial" font-size="12" font-weight="bold" fill="#DC2626">Avg</text>`,
		coord(centerX), coord(baseY+5))

	// Price labels along the top edge
	avgPrice := math.Round((minPrice + maxPrice) / 2)
	fmt.Fprintf(&b, `<text x="%s" y="12" text-anchor="start" font-family="Arial" font-size="10" fill="#6B7280">%s</text>`,
		coord(chartPadding), utils.FormatUSD(minPrice))
	fmt.Fprintf(&b, `<text x="%s" y="12" text-anchor="middle" font-family="Arial" font-size="10" fill="#6B7280">%s</text>`,
		coord(centerX), utils.FormatUSD(avgPrice))
	fmt.Fprintf(&b, `<text x="%s" y="12" text-anchor="end" font-family="Arial" font-size="10" fill="#6B7280">%s</text>`,
		coord(chartWidth-chartPadding), utils.FormatUSD(maxPrice))

	b.WriteString(`</svg>`)
	return b.String(), nil
}

// EmptyChart is the placeholder served when the range cannot be rendered.
func EmptyChart() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-family="Arial" font-size="12" fill="#9CA3AF">No price distribution available</text>`,
		coord(chartWidth/2), coord(chartHeight/2))
	b.WriteString(`</svg>`)
	return b.String()
}

// PeakX returns the horizontal coordinate of the curve apex. The bell is
// symmetric, so the apex sits at the canvas midpoint regardless of the price
// magnitudes.
func PeakX() float64 {
	return chartWidth / 2
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// coord formats a coordinate with fixed precision so output is stable.
func coord(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
