// Package canbus publishes velocity commands onto a CAN bus so downstream
// motor controllers can consume them without the HTTP surface. Optional;
// enabled via configuration.
package canbus

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"github.com/aosmw/navigation2/pkg/models"
)

// Command frames carry vx/vy in mm/s and wz in mrad/s as big-endian int16.
const frameLength = 6

// Sink writes command frames to a socketcan interface.
type Sink struct {
	conn    net.Conn
	tx      *socketcan.Transmitter
	frameID uint32
}

// NewSink dials the CAN interface (e.g. "can0", "vcan0").
func NewSink(ctx context.Context, iface string, frameID uint32) (*Sink, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	return &Sink{
		conn:    conn,
		tx:      socketcan.NewTransmitter(conn),
		frameID: frameID,
	}, nil
}

// Publish transmits one velocity command frame.
func (s *Sink) Publish(ctx context.Context, cmd models.Twist) error {
	return s.tx.TransmitFrame(ctx, EncodeFrame(s.frameID, cmd))
}

// Close releases the underlying connection.
func (s *Sink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// EncodeFrame packs a velocity command into a CAN frame. Values saturate at
// the int16 range (±32.767 m/s, far beyond any configured limit).
func EncodeFrame(frameID uint32, cmd models.Twist) can.Frame {
	f := can.Frame{
		ID:     frameID,
		Length: frameLength,
	}
	binary.BigEndian.PutUint16(f.Data[0:2], uint16(saturate(cmd.VX*1000)))
	binary.BigEndian.PutUint16(f.Data[2:4], uint16(saturate(cmd.VY*1000)))
	binary.BigEndian.PutUint16(f.Data[4:6], uint16(saturate(cmd.WZ*1000)))
	return f
}

func saturate(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
