// Package sh provides the interactive shell of steerctl.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/steerbox/pkg/l0/comm"
	env "github.com/robotalks/steerbox/pkg/l1/env/connector"
	"github.com/robotalks/steerbox/pkg/l1/msgs"
	"github.com/robotalks/steerbox/pkg/l1/steerbox"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	LinkURL     string
	Box         steerbox.Config

	Shell   *ishell.Shell
	Config  *env.Config
	Session *Session
}

const (
	shellKey     = "$shell"
	closedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	autoOpen   bool

	commands = []*ishell.Cmd{
		&OpenCmd,
		&DiscoverCmd,
		&ConnectCmd,
		&CloseCmd,
		&ResetCmd,
		&DriveCmd,
		&StopCmd,
		&StatusCmd,
		&WatchCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.BoolVar(&autoOpen, "open", autoOpen, "Open the link before running commands.")
}

// New creates a new shell.
func New(conf *env.Config, linkURL string) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		LinkURL:     linkURL,
		Box:         steerbox.DefaultConfig,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpened wraps command func requires a session.
func MustBeOpened(fn func(c *ishell.Context, s *Session)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		sess := ShellFrom(c).Session
		if sess == nil {
			c.Err(fmt.Errorf("no box opened"))
			return
		}
		fn(c, sess)
	}
}

// Attach replaces the current session.
func (s *Shell) Attach(sess *Session) {
	s.Detach()
	s.Session = sess
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", sess.Name))
}

// Detach closes the current session.
func (s *Shell) Detach() {
	if s.Session != nil {
		s.Session.Close()
		s.Session = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// FormatState prints a State for display.
func FormatState(state *msgs.State) string {
	resp := comm.Response{
		Position:      int16(state.Counts),
		EncoderErrors: uint8(state.EncoderErrors),
		Status:        byte(state.Status),
	}
	str := fmt.Sprintf("%+.4f rev  %+.2f V  %s", state.Position, state.Voltage, resp)
	if !state.Ready {
		str += "  [reset required]"
	}
	if state.Error != "" {
		str += "  error: " + state.Error
	}
	return str
}

// PrintState prints a State in the configured format.
func (s *Shell) PrintState(c *ishell.Context, state *msgs.State) {
	if s.OutputJSON {
		out, err := json.Marshal(&state.PBState)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(FormatState(state))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Detach()
	if autoOpen {
		if err := s.Shell.Process(OpenCmd.Name); err != nil {
			log.Fatalln(err)
		}
	}
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func parseFloatArg(c *ishell.Context, n int, name string, def float64) (float64, bool) {
	if len(c.Args) <= n {
		return def, true
	}
	val, err := strconv.ParseFloat(c.Args[n], 64)
	if err != nil {
		c.Err(fmt.Errorf("invalid %s: %v", name, err))
		return 0, false
	}
	return val, true
}

func sendCommand(c *ishell.Context, sess *Session, msg msgs.Message) {
	if err := sess.Target.HandleCommand(msg); err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

var (
	// OpenCmd opens a box over a link.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[LINK-URL] open a box directly, sim:// for a simulated one",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			linkURL := s.LinkURL
			if len(c.Args) > 0 {
				linkURL = c.Args[0]
			}
			sess, err := OpenLocal(linkURL, s.Box)
			if err != nil {
				c.Err(err)
				return
			}
			s.Attach(sess)
		},
	}

	// DiscoverCmd discovers daemons.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list daemons on MQTT",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			connector, err := s.Config.NewConnector()
			if err != nil {
				c.Err(err)
				return
			}
			infos, err := connector.Discover(context.TODO())
			if err != nil {
				c.Err(err)
				return
			}
			if len(infos) == 0 {
				c.Println("No boxes found")
				return
			}
			for _, info := range infos {
				line := info.Ref.Name()
				if info.Meta.Description != "" {
					line += ": " + info.Meta.Description
				}
				c.Println(line)
			}
		},
	}

	// ConnectCmd connects a daemon.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID] connect a daemon over MQTT",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := *s.Config
			if len(c.Args) > 0 {
				conf.Ref.ID = c.Args[0]
			}
			sess, err := OpenRemote(context.TODO(), conf.Connect)
			if err != nil {
				c.Err(err)
				return
			}
			s.Attach(sess)
		},
	}

	// CloseCmd closes the current box.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "close the current box",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Detach()
		},
	}

	// ResetCmd resets the box.
	ResetCmd = ishell.Cmd{
		Name:    "reset",
		Aliases: []string{"ack"},
		Help:    "[powerup] resynchronize and acknowledge errors",
		Func: MustBeOpened(func(c *ishell.Context, sess *Session) {
			msg := &msgs.Reset{}
			msg.AllowPowerUp = len(c.Args) > 0 && c.Args[0] == "powerup"
			sendCommand(c, sess, msg)
		}),
	}

	// DriveCmd sets the target voltage.
	DriveCmd = ishell.Cmd{
		Name:    "drive",
		Aliases: []string{"d"},
		Help:    "VOLTAGE [DV] voltage in [-1, 1], DV limits the change per cycle",
		Func: MustBeOpened(func(c *ishell.Context, sess *Session) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("VOLTAGE required"))
				return
			}
			msg := &msgs.Drive{}
			var ok bool
			if msg.Voltage, ok = parseFloatArg(c, 0, "VOLTAGE", 0); !ok {
				return
			}
			if msg.Dv, ok = parseFloatArg(c, 1, "DV", 0); !ok {
				return
			}
			sendCommand(c, sess, msg)
		}),
	}

	// StopCmd stops the motor.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "stop the motor",
		Func: MustBeOpened(func(c *ishell.Context, sess *Session) {
			sendCommand(c, sess, &msgs.Drive{})
		}),
	}

	// StatusCmd prints the last state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "print the last state",
		Func: MustBeOpened(func(c *ishell.Context, sess *Session) {
			state, cmdErr := sess.Last()
			if state == nil {
				c.Println("No state received")
			} else {
				ShellFrom(c).PrintState(c, state)
			}
			if cmdErr != nil {
				c.Println("last command error: " + cmdErr.Message)
			}
		}),
	}

	// WatchCmd prints states as they arrive.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[COUNT] print the next COUNT states",
		Func: MustBeOpened(func(c *ishell.Context, sess *Session) {
			count, ok := parseFloatArg(c, 0, "COUNT", 10)
			if !ok {
				return
			}
			ch, stop := sess.Watch()
			defer stop()
			s := ShellFrom(c)
			for n := 0; n < int(count); n++ {
				select {
				case state := <-ch:
					s.PrintState(c, state)
				case <-time.After(time.Second):
					c.Err(fmt.Errorf("no state received"))
					return
				}
			}
		}),
	}
)

// Main runs the shell with the default connector config.
func Main(linkURL string, args ...string) {
	New(env.NewConfig(), linkURL).Run(args...)
}
