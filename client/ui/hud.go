package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cbodonnell/snake/client/fonts"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/ebitenui/ebitenui"
	eimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

// TopBarHeight is the height reserved above the board.
const TopBarHeight = 48

var (
	buttonImage = &widget.ButtonImage{
		Idle:    eimage.NewNineSliceColor(color.NRGBA{R: 170, G: 170, B: 180, A: 255}),
		Hover:   eimage.NewNineSliceColor(color.NRGBA{R: 135, G: 135, B: 150, A: 255}),
		Pressed: eimage.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 120, A: 255}),
	}
	buttonTextColor = &widget.ButtonTextColor{
		Idle:     color.NRGBA{254, 255, 255, 255},
		Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
	}
	textColor     = color.NRGBA{254, 255, 255, 255}
	topBarColor   = color.NRGBA{40, 40, 48, 255}
	windowColor   = color.NRGBA{60, 60, 70, 240}
	buttonPadding = widget.Insets{Left: 15, Right: 15, Top: 5, Bottom: 5}
)

// HUD draws the score and controls above the board, plus the game over dialog.
type HUD struct {
	ui            *ebitenui.UI
	width         int
	height        int
	onTogglePause func()
	onReset       func()

	rendered bool
	score    int
	paused   bool
	gameOver bool
}

type NewHUDOptions struct {
	// Width and Height are the logical screen size
	Width  int
	Height int
	// OnTogglePause is called when the pause button is pressed.
	OnTogglePause func()
	// OnReset is called by the reset button and by dismissing the game over dialog.
	OnReset func()
}

func NewHUD(opts NewHUDOptions) *HUD {
	h := &HUD{
		width:         opts.Width,
		height:        opts.Height,
		onTogglePause: opts.OnTogglePause,
		onReset:       opts.OnReset,
	}
	h.renderUI()
	return h
}

// Sync re-renders the widgets when the displayed values change.
func (h *HUD) Sync(state *types.GameState) {
	if state == nil {
		return
	}
	if h.rendered && state.Score == h.score && state.Paused == h.paused && state.GameOver == h.gameOver {
		return
	}
	h.score = state.Score
	h.paused = state.Paused
	h.gameOver = state.GameOver
	h.renderUI()
}

func (h *HUD) renderUI() {
	fontFace := fonts.TTFNormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	topBar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(eimage.NewNineSliceColor(topBarColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(widget.Insets{Top: 8, Left: 12, Right: 12, Bottom: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(h.width, TopBarHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
	)
	rootContainer.AddChild(topBar)

	topBar.AddChild(widget.NewText(
		widget.TextOpts.Text(fmt.Sprintf("Score: %d", h.score), fontFace, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{
			Position: widget.RowLayoutPositionCenter,
		})),
	))

	pauseLabel := "Pause"
	if h.paused {
		pauseLabel = "Resume"
	}
	topBar.AddChild(h.newButton(pauseLabel, h.onTogglePause))
	topBar.AddChild(h.newButton("Reset", h.onReset))

	ebitenUI := &ebitenui.UI{
		Container: rootContainer,
	}

	if h.gameOver {
		ebitenUI.AddWindow(h.newGameOverWindow())
	}

	h.ui = ebitenUI
	h.rendered = true
}

func (h *HUD) newButton(label string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text(label, fonts.TTFNormalFont, buttonTextColor),
		widget.ButtonOpts.TextPadding(buttonPadding),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

// newGameOverWindow builds a modal that stays up until the player dismisses
// it, which starts a new game.
func (h *HUD) newGameOverWindow() *widget.Window {
	windowContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(eimage.NewNineSliceColor(windowColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(16),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(20)),
		)),
	)
	windowContainer.AddChild(widget.NewText(
		widget.TextOpts.Text(fmt.Sprintf("Game Over! Your Score: %d", h.score), fonts.MPlusLargeFont, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{
			Position: widget.RowLayoutPositionCenter,
		})),
	))
	windowContainer.AddChild(h.newButton("OK", h.onReset))

	window := widget.NewWindow(
		widget.WindowOpts.Contents(windowContainer),
		widget.WindowOpts.Modal(),
		widget.WindowOpts.CloseMode(widget.NONE),
	)

	x, y := window.Contents.PreferredSize()
	r := image.Rect(0, 0, x, y)
	r = r.Add(image.Point{X: (h.width - x) / 2, Y: (h.height - y) / 2})
	window.SetLocation(r)
	return window
}

func (h *HUD) Update() {
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)
}
