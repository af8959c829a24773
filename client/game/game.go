package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/cbodonnell/snake/client/fonts"
	"github.com/cbodonnell/snake/client/input"
	"github.com/cbodonnell/snake/client/session"
	"github.com/cbodonnell/snake/client/ui"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	pkginput "github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

var (
	backgroundColor = color.RGBA{20, 20, 24, 255}
	borderColor     = color.RGBA{128, 128, 128, 255}
	snakeColor      = color.RGBA{0, 100, 0, 255}
	foodColor       = color.RGBA{255, 99, 71, 255}
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// session is the game being played.
	session session.Session
	// config is the board geometry of the session.
	config game.Config
	// reader turns keys and swipes into actions.
	reader *input.Reader
	// hud is the top bar and the game over dialog.
	hud *ui.HUD
	// mode is the current game mode.
	mode GameMode
	// snapshot is the state drawn this frame.
	snapshot *types.GameState
}

type GameMode int

const (
	GameModePlay GameMode = iota
	GameModeOver
	GameModeNetworkError
)

func (m GameMode) String() string {
	switch m {
	case GameModePlay:
		return "Play"
	case GameModeOver:
		return "Over"
	case GameModeNetworkError:
		return "Network Error"
	}
	return "Unknown"
}

type NewGameOptions struct {
	Debug   bool
	Session session.Session
}

func NewGame(opts NewGameOptions) (*Game, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	config := opts.Session.Config()

	g := &Game{
		debug:   opts.Debug,
		session: opts.Session,
		config:  config,
		reader:  input.NewReader(),
	}
	width, height := g.screenSize()
	g.hud = ui.NewHUD(ui.NewHUDOptions{
		Width:  width,
		Height: height,
		OnTogglePause: func() {
			g.dispatch(pkginput.ActionPause)
		},
		OnReset: func() {
			g.dispatch(pkginput.ActionReset)
		},
	})

	return g, nil
}

func (g *Game) dispatch(action pkginput.Action) {
	if err := pkginput.Dispatch(g.session, action); err != nil {
		log.Error("Failed to send %s: %v", action, err)
	}
}

func (g *Game) Update() error {
	if g.mode == GameModeNetworkError {
		return nil
	}
	if err := g.session.Err(); err != nil {
		log.Error("Session stopped: %v", err)
		g.mode = GameModeNetworkError
		return nil
	}

	for _, action := range g.reader.Actions() {
		g.dispatch(action)
	}

	g.snapshot = g.session.Snapshot()
	if g.snapshot != nil {
		switch {
		case g.snapshot.GameOver && g.mode != GameModeOver:
			log.Info("Game over with score %d", g.snapshot.Score)
			g.mode = GameModeOver
		case !g.snapshot.GameOver && g.mode == GameModeOver:
			g.mode = GameModePlay
		}
	}

	g.hud.Sync(g.snapshot)
	g.hud.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	cell := float32(g.config.CellSize)
	top := float32(ui.TopBarHeight)
	vector.StrokeRect(screen, 0, top, float32(g.config.Cols)*cell, float32(g.config.Rows)*cell, 1, borderColor, false)

	if g.snapshot != nil {
		food := g.snapshot.Food
		vector.DrawFilledRect(screen, float32(food.X)*cell, top+float32(food.Y)*cell, cell, cell, foodColor, false)
		for _, segment := range g.snapshot.Snake {
			vector.DrawFilledRect(screen, float32(segment.X)*cell, top+float32(segment.Y)*cell, cell, cell, snakeColor, false)
		}
	}

	switch {
	case g.mode == GameModeNetworkError:
		g.drawOverlay(screen, "Network Error")
	case g.snapshot != nil && g.snapshot.Paused:
		g.drawOverlay(screen, "Paused")
	}

	g.hud.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %0.2f\nMode: %s\nLatency: %v", ebiten.ActualFPS(), g.mode, g.session.Latency()), 0, ui.TopBarHeight)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image, t string) {
	t = strings.ToUpper(t)
	f := fonts.MPlusLargeFont
	bounds, _ := font.BoundString(f, t)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(screen.Bounds().Dx())/2-float64(bounds.Max.X>>6)/2, float64(screen.Bounds().Dy())/2-float64(bounds.Max.Y>>6)/2)
	op.ColorScale.ScaleWithColor(color.White)
	text.DrawWithOptions(screen, t, f, op)
}

func (g *Game) screenSize() (int, int) {
	return g.config.Cols * g.config.CellSize, g.config.Rows*g.config.CellSize + ui.TopBarHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.screenSize()
}
