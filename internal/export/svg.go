package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/vecmath"
)

var linkStyles = map[string]string{
	"cable":   `stroke="#00ccff" stroke-width="1.5" stroke-dasharray="4 2"`,
	"rod":     `stroke="#ffffff" stroke-width="2.5"`,
	"support": `stroke="#888899" stroke-width="1"`,
	"arm":     `stroke="#ffcc00" stroke-width="2"`,
}

// FrameToSVG draws one recorded frame: links first, then particles. The
// view box is padded by a tenth on each side and y points up.
func FrameToSVG(w io.Writer, view scene.Box, frame sim.Frame, links []storage.LinkRecord, width, height int) error {
	vw, vh := view.Width(), view.Height()
	if vw <= 0 {
		vw = 1
	}
	if vh <= 0 {
		vh = 1
	}
	minX, minY := view.MinX-vw*0.1, view.MinY-vh*0.1
	vw, vh = vw*1.2, vh*1.2
	s := min(float64(width)/vw, float64(height)/vh)

	toScreen := func(p vecmath.Vector3) (float64, float64) {
		return (p.X - minX) * s, float64(height) - (p.Y-minY)*s
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if minY <= 0 && minY+vh >= 0 {
		_, gy := toScreen(vecmath.Vector3{})
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, gy, width, gy)
	}

	sb.WriteString("<g fill=\"none\">\n")
	for _, l := range links {
		if l.A < 0 || l.A >= len(frame.Positions) || l.B >= len(frame.Positions) {
			continue
		}
		end := vecmath.New(l.Anchor[0], l.Anchor[1], l.Anchor[2])
		if l.B >= 0 {
			end = frame.Positions[l.B]
		}
		x1, y1 := toScreen(frame.Positions[l.A])
		x2, y2 := toScreen(end)
		style, ok := linkStyles[l.Kind]
		if !ok {
			style = linkStyles["support"]
		}
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" %s/>
`, x1, y1, x2, y2, style)
	}
	sb.WriteString("</g>\n<g fill=\"#00ff88\">\n")

	r := max(2, min(6, s*0.1))
	for _, p := range frame.Positions {
		if !p.IsFinite() {
			continue
		}
		cx, cy := toScreen(p)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, r)
	}
	fmt.Fprintf(&sb, "</g>\n<text x=\"8\" y=\"18\" fill=\"#888899\" font-family=\"monospace\" font-size=\"12\">t=%.3fs contacts=%d</text>\n</svg>\n", frame.Time, frame.Contacts)

	_, err := io.WriteString(w, sb.String())
	return err
}

// TrajectoryToSVG draws a particle path as a single polyline.
func TrajectoryToSVG(w io.Writer, path *analysis.Path, width, height int, strokeColor string) error {
	if path == nil || len(path.Points) < 2 {
		return fmt.Errorf("export: trajectory needs at least two points")
	}
	points := path.Points

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	fmt.Fprintf(&sb, `"/>
<text x="8" y="18" fill="#888899" font-family="monospace" font-size="12">particle %d (%s, %s)</text>
</svg>
`, path.Particle, path.XAxis, path.YAxis)

	_, err := io.WriteString(w, sb.String())
	return err
}
