package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/vecmath"
)

func toRL(v vecmath.Vector3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func (a *App) drawSim() {
	rl.BeginMode3D(a.Camera)

	if a.Scene.Boundary != nil {
		a.drawGround()
	}
	a.RenderLinks()
	a.RenderParticles()
	if ball, ok := a.Scene.BallPosition(); ok {
		rl.DrawSphere(toRL(ball), 0.35, ColLoad)
	}

	rl.EndMode3D()
}

// drawGround draws the y=0 plane as a grid under the view box.
func (a *App) drawGround() {
	v := a.Scene.View
	minX, maxX := float32(math.Floor(v.MinX)), float32(math.Ceil(v.MaxX))
	for x := minX; x <= maxX; x++ {
		rl.DrawLine3D(rl.NewVector3(x, 0, -2), rl.NewVector3(x, 0, 2), ColGrid)
	}
	for z := float32(-2); z <= 2; z++ {
		rl.DrawLine3D(rl.NewVector3(minX, 0, z), rl.NewVector3(maxX, 0, z), ColGrid)
	}
}

func (a *App) RenderLinks() {
	for _, l := range a.Scene.Links() {
		p0, p1 := l.Ends()
		col := rl.Gray
		switch l.(type) {
		case *links.Rod, *links.RodConstraint:
			col = rl.White
		case *links.CableConstraint:
			col = ColTextDim
		}
		rl.DrawLine3D(toRL(p0), toRL(p1), col)
	}
}

// RenderParticles sizes each particle by the cube root of its mass and
// draws immovable ones dimmed.
func (a *App) RenderParticles() {
	for i := range a.Scene.Particles {
		p := &a.Scene.Particles[i]
		if !p.IsFinite() {
			continue
		}
		if !p.HasFiniteMass() {
			rl.DrawCube(toRL(p.Position()), 0.3, 0.3, 0.3, ColTextDim)
			continue
		}
		r := float32(0.15 * math.Cbrt(max(p.Mass(), 0.1)))
		speed := p.Velocity().Magnitude()
		shade := uint8(math.Min(140+speed*20, 255))
		rl.DrawSphere(toRL(p.Position()), r, rl.NewColor(shade, shade, shade, 255))
	}
}
