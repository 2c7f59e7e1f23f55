package debug

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/Versifine/stride/internal/app"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/player"
	"github.com/gdamore/tcell/v2"
)

type Player interface {
	State() player.MotionState
	Entity() physics.Entity
	Reset(pos physics.Vec3)
}

type Camera interface {
	OrbitLeft()
	OrbitRight()
	Yaw() float32
}

type Flow interface {
	State() app.State
	Next() error
	Fire(t app.Trigger) error
}

// Poster hands a function to the frame loop. Anything that touches the
// simulation goes through it.
type Poster interface {
	Post(fn func())
}

type Registrar interface {
	Register(name string, fn func())
}

// Console is the interactive terminal playground: it feeds key presses into
// the keyboard source and draws a top-down view after every frame.
type Console struct {
	screen tcell.Screen
	keys   *input.Keyboard
	player Player
	camera Camera
	flow   Flow
	world  *physics.World
	post   Poster

	mu          sync.Mutex
	commandMode bool
	commandBuf  []rune
	message     string
	activated   bool
}

func NewConsole(screen tcell.Screen, keys *input.Keyboard, p Player, cam Camera, flow Flow, world *physics.World, post Poster) *Console {
	return &Console{
		screen: screen,
		keys:   keys,
		player: p,
		camera: cam,
		flow:   flow,
		world:  world,
		post:   post,
	}
}

// Run reads terminal events until the user quits or ctx ends. The screen
// must already be initialized; Run does not finalize it.
func (c *Console) Run(ctx context.Context) error {
	if c == nil || c.screen == nil {
		return fmt.Errorf("console screen is nil")
	}

	go func() {
		<-ctx.Done()
		_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	c.setMessage("arrows move, space jumps, shift/x dashes, enter continues, : for commands")
	for {
		ev := c.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		if !c.HandleEvent(ev) {
			return nil
		}
	}
}

// Activate registers the view as the last frame step.
func (c *Console) Activate(r Registrar) {
	if c.activated || r == nil {
		return
	}
	c.activated = true
	r.Register("view", c.Draw)
}

// HandleEvent applies one terminal event. It reports false when the user
// asked to quit.
func (c *Console) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.screen.Sync()
	case *tcell.EventKey:
		if c.isCommandMode() {
			c.handleCommandKey(ev)
			return true
		}
		return c.handleKey(ev)
	}
	return true
}

func (c *Console) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	case tcell.KeyUp:
		c.press(input.ArrowUp, ev)
	case tcell.KeyDown:
		c.press(input.ArrowDown, ev)
	case tcell.KeyLeft:
		c.press(input.ArrowLeft, ev)
	case tcell.KeyRight:
		c.press(input.ArrowRight, ev)
	case tcell.KeyEnter:
		c.post.Post(func() {
			if err := c.flow.Next(); err != nil {
				c.setMessage(err.Error())
			}
		})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			c.keys.Press(input.Space)
		case 'x', 'X':
			c.keys.Press(input.Shift)
		case 'a', 'A':
			c.post.Post(c.camera.OrbitLeft)
		case 'd', 'D':
			c.post.Post(c.camera.OrbitRight)
		case 'l', 'L':
			c.post.Post(func() {
				if err := c.flow.Fire(app.TriggerLose); err != nil {
					c.setMessage(err.Error())
				}
			})
		case ':':
			c.mu.Lock()
			c.commandMode = true
			c.commandBuf = c.commandBuf[:0]
			c.mu.Unlock()
		}
	}
	return true
}

func (c *Console) press(k input.Key, ev *tcell.EventKey) {
	c.keys.Press(k)
	if ev.Modifiers()&tcell.ModShift != 0 {
		c.keys.Press(input.Shift)
	}
}

func (c *Console) handleCommandKey(ev *tcell.EventKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		if cmd != "" {
			c.post.Post(func() { c.executeCommand(cmd) })
		}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.message = "command cancelled"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
	case tcell.KeyRune:
		c.commandBuf = append(c.commandBuf, ev.Rune())
	}
}

// executeCommand runs on the frame loop.
func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.setMessage("keys: arrows q esc space x/shift a d enter l  commands: :tp <x> <y> <z>  :state  :help")
	case "state":
		st := c.player.State()
		pos := c.player.Entity().Position()
		c.setMessage(fmt.Sprintf("pos=(%.3f,%.3f,%.3f) gravity=%.3f grounded=%t jumps=%d dash=%t/%d can_dash=%t last_ground=(%.2f,%.2f,%.2f)",
			pos.X, pos.Y, pos.Z,
			st.Gravity.Y, st.Grounded, st.JumpCharges,
			st.DashActive, st.DashTimer, st.CanDash,
			st.LastGroundPosition.X, st.LastGroundPosition.Y, st.LastGroundPosition.Z,
		))
	case "tp":
		if len(parts) != 4 {
			c.setMessage("usage: :tp <x> <y> <z>")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 32)
		y, err2 := strconv.ParseFloat(parts[2], 32)
		z, err3 := strconv.ParseFloat(parts[3], 32)
		if err1 != nil || err2 != nil || err3 != nil {
			c.setMessage("invalid tp args")
			return
		}
		c.player.Reset(physics.V3(float32(x), float32(y), float32(z)))
		c.setMessage(fmt.Sprintf("teleported to (%.3f, %.3f, %.3f)", x, y, z))
		slog.Debug("Console teleport", "x", x, "y", y, "z", z)
	default:
		c.setMessage("unknown command: " + parts[0])
	}
}

func (c *Console) setMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = msg
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func (c *Console) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}
