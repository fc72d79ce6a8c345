package server

import (
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

// FrameMessage is what clients receive once per tick.
type FrameMessage struct {
	Type       string               `json:"type"`
	Scene      string               `json:"scene"`
	Time       float64              `json:"time"`
	Contacts   int                  `json:"contacts"`
	Iterations int                  `json:"iterations"`
	Energy     float64              `json:"energy"`
	View       scene.Box            `json:"view"`
	Positions  []vecmath.Vector3    `json:"positions"`
	Links      [][2]vecmath.Vector3 `json:"links"`
	Ball       *vecmath.Vector3     `json:"ball,omitempty"`
}

// ClientMessage is what clients may send over the websocket.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}

func frameOf(sc *scene.Scene) FrameMessage {
	ls := sc.Links()
	msg := FrameMessage{
		Type:       "frame",
		Scene:      sc.Name,
		Time:       sc.Time(),
		Contacts:   len(sc.World.Contacts()),
		Iterations: sc.World.IterationsUsed(),
		Energy:     sc.KineticEnergy(),
		View:       sc.View,
		Positions:  sc.Positions(make([]vecmath.Vector3, 0, len(sc.Particles))),
		Links:      make([][2]vecmath.Vector3, len(ls)),
	}
	for i, l := range ls {
		msg.Links[i][0], msg.Links[i][1] = l.Ends()
	}
	if ball, ok := sc.BallPosition(); ok {
		msg.Ball = &ball
	}
	return msg
}
