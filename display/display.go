// Package display shows rendered figures inline on a terminal.
//
// Figures are transmitted with the inline image protocol of the
// terminal emulator and never written to a file.
package display

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Display is a surface finished figures are flushed to.
type Display interface {
	// Show displays the PNG encoded image img and returns once it
	// has been handed to the surface.
	Show(name string, img []byte) error
}

// New returns the display for protocol ("iterm" or "kitty") writing to w.
// The empty protocol selects "iterm".
func New(protocol string, w io.Writer) (Display, error) {
	switch strings.ToLower(protocol) {
	case "", "iterm", "iterm2":
		return &ITerm{W: w}, nil
	case "kitty":
		return &Kitty{W: w}, nil
	}
	return nil, fmt.Errorf("unknown display protocol %q", protocol)
}

// ITerm shows images with the iTerm2 inline image protocol (OSC 1337),
// understood by iTerm2, WezTerm, mintty and others.
type ITerm struct {
	W io.Writer
}

func (d *ITerm) Show(name string, img []byte) error {
	_, err := fmt.Fprintf(d.W, "\x1b]1337;File=name=%s;size=%d;inline=1;preserveAspectRatio=1:%s\a\n",
		base64.StdEncoding.EncodeToString([]byte(name)), len(img),
		base64.StdEncoding.EncodeToString(img))
	return err
}

// kittyChunk is the maximum payload size of one kitty graphics escape.
const kittyChunk = 4096

// Kitty shows images with the kitty terminal graphics protocol.
type Kitty struct {
	W io.Writer
}

func (d *Kitty) Show(name string, img []byte) error {
	payload := base64.StdEncoding.EncodeToString(img)
	first := true
	for len(payload) > 0 {
		n := len(payload)
		if n > kittyChunk {
			n = kittyChunk
		}
		chunk := payload[:n]
		payload = payload[n:]

		more := 0
		if len(payload) > 0 {
			more = 1
		}
		var err error
		if first {
			_, err = fmt.Fprintf(d.W, "\x1b_Ga=T,f=100,m=%d;%s\x1b\\", more, chunk)
			first = false
		} else {
			_, err = fmt.Fprintf(d.W, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(d.W, "\n")
	return err
}
