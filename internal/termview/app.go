package termview

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/efield"
)

// PanStep is the fraction of the view moved by one arrow key press.
const PanStep = 0.1

var templateKeys = map[rune]efield.Kind{
	'1': efield.KindPoint,
	'2': efield.KindLine,
	'3': efield.KindCircle,
	'4': efield.KindRing,
}

type quitEvent struct{}

// App is the interactive terminal editor. All fields are owned by the Run
// goroutine.
type App struct {
	screen tcell.Screen
	scene  *efield.Scene

	bounds   efield.GraphBounds
	frame    *efield.Frame
	template efield.Kind
	message  string
	buttons  tcell.ButtonMask
}

// New returns an editor for scene showing bounds. The screen must already
// be initialised; Run does not finalise it.
func New(screen tcell.Screen, scene *efield.Scene, bounds efield.GraphBounds) *App {
	return &App{screen: screen, scene: scene, bounds: bounds, template: efield.KindPoint}
}

// Run processes events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	defer a.screen.DisableMouse()

	a.scene.OnFrame(func(f *efield.Frame) {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(f))
	})
	defer a.scene.OnFrame(nil)

	cancel := a.scene.Window().OnChange(func(c efield.Change) {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(c))
	})
	defer cancel()

	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
	})
	defer stop()

	a.draw()
	a.rebuild()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
			a.rebuild()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case *efield.Frame:
				a.frame = data
				a.draw()
			case efield.Change:
				a.rebuild()
			case quitEvent:
				return ctx.Err()
			}
		}
	}
}

// view returns the bounds actually shown, fitted to the plot area.
func (a *App) view() (efield.GraphBounds, float64) {
	w, h := a.screen.Size()
	h--
	return Fit(a.bounds, w, h, a.scene.Settings().AspectLocked), Aspect(w, h)
}

func (a *App) rebuild() {
	bounds, aspect := a.view()
	a.scene.Rebuild(bounds, aspect)
	a.draw()
}

func (a *App) draw() {
	Draw(a.screen, a.frame, a.status())
	a.screen.Show()
}

func (a *App) status() string {
	w := a.scene.Window()
	st := a.scene.Settings()
	s := fmt.Sprintf(" %d charges (%d removed) | res %d | new %s", w.Len(), w.RemovedLen(), st.Resolution, a.template)
	if a.message != "" {
		s += " | " + a.message
	}
	return s + " | +/-/0 res  o origin  d fit  l lock  1-4 kind  ⌫ u x a  q quit"
}

func (a *App) updateSettings(fn func(*efield.Settings)) {
	if err := a.scene.UpdateSettings(fn); err != nil {
		a.message = err.Error()
	}
	a.rebuild()
}

func (a *App) pan(dx, dy float64) {
	a.bounds = a.bounds.Translate(dx*a.bounds.Width()*PanStep, dy*a.bounds.Height()*PanStep)
	a.rebuild()
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	return a.apply(ev.Key(), ev.Rune())
}

// apply handles one key press and reports whether to quit. r is only
// meaningful for tcell.KeyRune.
func (a *App) apply(key tcell.Key, r rune) bool {
	w := a.scene.Window()
	a.message = ""

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		a.pan(-1, 0)
	case tcell.KeyRight:
		a.pan(1, 0)
	case tcell.KeyUp:
		a.pan(0, 1)
	case tcell.KeyDown:
		a.pan(0, -1)
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		w.RemoveLastCharge()
	case tcell.KeyRune:
		if kind, ok := templateKeys[r]; ok {
			a.template = kind
			a.draw()
			return false
		}
		switch r {
		case 'q':
			return true
		case '+', '=':
			a.updateSettings((*efield.Settings).IncreaseResolution)
		case '-':
			a.updateSettings((*efield.Settings).DecreaseResolution)
		case '0':
			a.updateSettings((*efield.Settings).ResetResolution)
		case 'l':
			a.updateSettings((*efield.Settings).ToggleAspectLock)
		case 'o':
			a.bounds = a.bounds.CenterOrigin()
			a.rebuild()
		case 'd':
			a.bounds = w.DefaultBounds()
			a.rebuild()
		case 'u':
			w.UndoChargeRemoval()
		case 'x':
			w.RemoveAllCharges()
		case 'a':
			w.ReaddAllCharges()
		}
	}
	return false
}

// handleMouse drops the selected template where the left button is pressed.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons() &^ a.buttons
	a.buttons = ev.Buttons()
	if pressed&tcell.Button1 == 0 {
		return
	}
	a.click(ev.Position())
}

// click drops the selected template at cell (x, y).
func (a *App) click(x, y int) {
	sw, sh := a.screen.Size()
	if y >= sh-1 {
		return
	}
	bounds, _ := a.view()
	at := grid{bounds: bounds, w: sw, h: sh - 1}.center(x, y)

	c, err := efield.Template(a.template, at)
	if err == nil {
		_, err = a.scene.Window().AddCharge(c)
	}
	if err != nil {
		a.message = err.Error()
		a.draw()
	}
}
