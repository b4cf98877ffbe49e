// Package passthrough bridges a Flystick's serial companion diagnostic
// channel -- some DTrack installations tee Flystick battery/status
// telemetry over a secondary serial link, separate from the UDP
// measurement stream -- into a line event channel a collaborator can
// fold into its own logging: own a serial.Port, expose lines as a
// channel, accept outbound commands without blocking the read loop.
package passthrough

import (
	"bufio"
	"context"
	"io"
	"log"

	"go.bug.st/serial"

	"github.com/banshee-data/dtracksdk/internal/serialmux"
)

// defaultPortOptions is this diagnostic channel's historical line rate:
// 115200 8N1.
func defaultPortOptions() serialmux.PortOptions {
	return serialmux.PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}
}

// FlystickSerialPortInterface is the method set FlystickSerialPort and
// MockFlystickSerialPort share, allowing a test double in place of a
// real serial port.
type FlystickSerialPortInterface interface {
	Events() <-chan string
	Monitor(ctx context.Context) error
	SendCommand(command string)
	Close() error
}

// MockFlystickSerialPort implements FlystickSerialPortInterface by
// scanning a canned io.Reader line by line, for tests that exercise the
// passthrough event log without real hardware.
type MockFlystickSerialPort struct {
	Data       io.Reader
	EventsChan chan string
}

func (m *MockFlystickSerialPort) Events() <-chan string {
	return m.EventsChan
}

func (m *MockFlystickSerialPort) SendCommand(command string) {
	log.Printf("passthrough: mock received command %q", command)
}

func (m *MockFlystickSerialPort) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(m.Data)
	for scan.Scan() {
		line := scan.Text()
		select {
		case m.EventsChan <- line:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

func (m *MockFlystickSerialPort) Close() error {
	return nil
}

// FlystickSerialPort owns a real serial connection to the Flystick's
// diagnostic companion channel.
type FlystickSerialPort struct {
	serial.Port
	events   chan string
	commands chan string
}

// NewFlystickSerialPort opens portName with opts[0], or with this
// diagnostic channel's default line rate (115200 8N1) if no opts are
// given. A zero-valued PortOptions passed explicitly is normalized like
// any other (19200 8N1), not replaced by that default.
func NewFlystickSerialPort(portName string, opts ...serialmux.PortOptions) (*FlystickSerialPort, error) {
	o := defaultPortOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	mode, err := o.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	return &FlystickSerialPort{
		Port:     port,
		events:   make(chan string),
		commands: make(chan string),
	}, nil
}

// Events returns a channel of lines read from the diagnostic port.
func (p *FlystickSerialPort) Events() <-chan string {
	return p.events
}

// Close closes the serial port.
func (p *FlystickSerialPort) Close() error {
	return p.Port.Close()
}

// SendCommand queues a command to be written to the serial port by
// Monitor's read/write loop.
func (p *FlystickSerialPort) SendCommand(command string) {
	p.commands <- command
}

func (p *FlystickSerialPort) writeCommand(command string) error {
	_, err := p.Port.Write([]byte(command))
	if err != nil {
		log.Printf("passthrough: ❌ error writing to port: %v", err)
		return err
	}
	return nil
}

// Monitor reads lines from the serial port and sends them to the events
// channel, interleaving writes of any queued outbound command.
func (p *FlystickSerialPort) Monitor(ctx context.Context) error {
	defer p.Close()
	scan := bufio.NewScanner(p.Port)

	for {
		select {
		case <-ctx.Done():
			return nil
		case command := <-p.commands:
			if err := p.writeCommand(command); err != nil {
				log.Printf("passthrough: ❌ error writing command to port: %v", err)
			}
		default:
			if !scan.Scan() {
				return scan.Err()
			}
			line := scan.Text()
			log.Printf("passthrough: 🔍 %s", line)

			select {
			case p.events <- line:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
