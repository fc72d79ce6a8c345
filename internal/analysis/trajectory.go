package analysis

import (
	"strings"

	"github.com/san-kum/partsim/internal/sim"
)

type Point struct{ X, Y float64 }

// Path is a particle's trajectory projected onto two axes.
type Path struct {
	Particle int
	XAxis    Axis
	YAxis    Axis
	Points   []Point
}

func Trajectory(frames []sim.Frame, particle int, xAxis, yAxis Axis) (*Path, error) {
	xs, err := Series(frames, particle, xAxis)
	if err != nil {
		return nil, err
	}
	ys, _ := Series(frames, particle, yAxis)

	p := &Path{Particle: particle, XAxis: xAxis, YAxis: yAxis, Points: make([]Point, len(xs))}
	for i := range xs {
		p.Points[i] = Point{xs[i], ys[i]}
	}
	return p, nil
}

// ASCII draws the path on a width x height character grid. The first and
// last samples are marked with 'o' and 'x'.
func (p *Path) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(pt Point) (int, int) {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		return row, col
	}

	for _, pt := range p.Points {
		row, col := cell(pt)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	// ground line, when y=0 is visible
	if p.YAxis == AxisY && minY <= 0 && minY+rangeY >= 0 {
		row, _ := cell(Point{0, 0})
		for col := range width {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	row, col := cell(p.Points[0])
	grid[row][col] = 'o'
	row, col = cell(p.Points[len(p.Points)-1])
	grid[row][col] = 'x'

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}
