package osc

import (
	"github.com/hypebeast/go-osc/osc"

	"github.com/lumenlab/ledsignal/internal/color"
)

const (
	frameAddress     = "/light/serial"
	sceneListAddress = "/scene_manager/scenes"
)

// EncodeFrame flattens a frame into the wire layout: one unsigned byte per
// R, G, B channel per LED, ascending index, no header. The receiver knows
// the LED count out of band.
func EncodeFrame(frame []color.RGB) []byte {
	out := make([]byte, 0, len(frame)*3)
	for _, c := range frame {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}

// Sender is the outbound feedback client: rendered frames as binary blobs
// plus reply messages. UDP, fire and forget.
type Sender struct {
	client *osc.Client
}

// NewSender creates a sender targeting the feedback receiver.
func NewSender(host string, port int) *Sender {
	return &Sender{client: osc.NewClient(host, port)}
}

// PublishFrame sends the frame as a blob on /light/serial.
func (s *Sender) PublishFrame(frame []color.RGB) error {
	msg := osc.NewMessage(frameAddress)
	msg.Append(EncodeFrame(frame))
	return s.client.Send(msg)
}

// SendSceneList replies to list_scenes with one string argument per scene
// id, in creation order.
func (s *Sender) SendSceneList(ids []string) error {
	msg := osc.NewMessage(sceneListAddress)
	for _, id := range ids {
		msg.Append(id)
	}
	return s.client.Send(msg)
}
