package link

import (
	"errors"
	"strings"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// ErrNoSerialPort indicates no USB serial adapter is present.
var ErrNoSerialPort = errors.New("no USB serial port found")

// USBPortPrefixes are the device name prefixes of USB serial adapters.
var USBPortPrefixes = []string{"/dev/ttyUSB", "/dev/tty.usbserial", "/dev/ttyACM"}

// FindSerial returns the first port looking like a USB serial adapter.
func FindSerial() (string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", err
	}
	if name := matchUSBPort(ports); name != "" {
		return name, nil
	}
	return "", ErrNoSerialPort
}

func matchUSBPort(ports []string) string {
	for _, prefix := range USBPortPrefixes {
		for _, name := range ports {
			if strings.HasPrefix(name, prefix) {
				return name
			}
		}
	}
	return ""
}

// OpenSerial opens a serial port. The first USB serial adapter is used if
// name is empty.
// A Read returns no data once the read timeout expires.
func OpenSerial(name string, opts Options) (serial.Port, error) {
	if name == "" {
		found, err := FindSerial()
		if err != nil {
			return nil, err
		}
		name = found
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if opts.ReadTimeout > 0 {
		if err = port.SetReadTimeout(opts.ReadTimeout); err != nil {
			port.Close()
			return nil, err
		}
	}
	glog.Infof("serial %s opened at %d baud", name, opts.BaudRate)
	return port, nil
}
