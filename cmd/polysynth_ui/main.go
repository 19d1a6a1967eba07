package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"math/cmplx"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ktye/fft"

	"github.com/polysynth/polysynth"
	"github.com/polysynth/polysynth/internal/audio"
	"github.com/polysynth/polysynth/internal/config"
	"github.com/polysynth/polysynth/internal/envelope"
	"github.com/polysynth/polysynth/internal/voice"
	"github.com/polysynth/polysynth/internal/waveform"
)

const (
	windowW    = 980
	windowH    = 640
	minWindowW = 820
	minWindowH = 560

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale

	fftSize    = 2048
	ringBufLen = 16384
)

var (
	bgColor         = color.RGBA{192, 192, 192, 255}
	panelColor      = color.RGBA{192, 192, 192, 255}
	borderColor     = color.RGBA{128, 128, 128, 255}
	highlightColor  = color.RGBA{0, 0, 128, 255}
	bevelLight      = color.RGBA{255, 255, 255, 255}
	bevelDarker     = color.RGBA{64, 64, 64, 255}
	sunkenBgColor   = color.RGBA{24, 24, 32, 255}
	sliderFillColor = color.RGBA{0, 0, 128, 255}
	whiteKeyColor   = color.RGBA{236, 236, 236, 255}
	blackKeyColor   = color.RGBA{32, 32, 40, 255}
)

// noteKeys maps two rows of the computer keyboard onto a piano layout,
// starting at the base frequency.
var noteKeys = []ebiten.Key{
	ebiten.KeyA, ebiten.KeyW, ebiten.KeyS, ebiten.KeyE, ebiten.KeyD,
	ebiten.KeyF, ebiten.KeyT, ebiten.KeyG, ebiten.KeyY, ebiten.KeyH,
	ebiten.KeyU, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyO, ebiten.KeyL,
	ebiten.KeyP, ebiten.KeySemicolon,
}

var noteLabels = []string{"A", "W", "S", "E", "D", "F", "T", "G", "Y", "H", "U", "J", "K", "O", "L", "P", ";"}

var waveKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

// analyzer keeps the most recent post-mix samples for the scope.
type analyzer struct {
	mu       sync.Mutex
	ring     []float32
	writePos int
}

func newAnalyzer() *analyzer {
	return &analyzer{ring: make([]float32, ringBufLen)}
}

// Tap runs on the audio thread.
func (a *analyzer) Tap(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.writePos] = s
		a.writePos = (a.writePos + 1) % ringBufLen
	}
	a.mu.Unlock()
}

// Snapshot copies the newest n samples, oldest first.
func (a *analyzer) Snapshot(n int) []float32 {
	n = min(n, ringBufLen)
	out := make([]float32, n)
	a.mu.Lock()
	start := (a.writePos - n + ringBufLen) % ringBufLen
	for i := range out {
		out[i] = a.ring[(start+i)%ringBufLen]
	}
	a.mu.Unlock()
	return out
}

type game struct {
	player   *polysynth.Player
	analyzer *analyzer
	fft      fft.FFT
	window   []float64
	scopeImg *ebiten.Image
	specBins []float64
	wavePeak float64

	// Local copies of what was last sent; the synth's own state belongs to
	// the audio goroutine.
	slots   voice.Slots
	env     envelope.ADSR
	slotIdx int
	pressed [17]bool
	volume  float64
	eqGains [5]float64

	draggingVolume bool
	draggingEQ     int

	status    string
	statusErr bool

	textCache map[string]*ebiten.Image
	viewW     int
	viewH     int
}

func newGame(cfg *config.Config, backend audio.Backend) (*game, error) {
	a := newAnalyzer()
	pl, err := polysynth.NewPlayer(
		polysynth.WithConfig(cfg),
		polysynth.WithBackend(backend),
		polysynth.WithSampleTap(a.Tap),
	)
	if err != nil {
		return nil, err
	}
	tr, err := fft.New(fftSize)
	if err != nil {
		return nil, err
	}
	win := make([]float64, fftSize)
	for i := range win {
		win[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}
	if err := pl.Start(); err != nil {
		return nil, err
	}
	return &game{
		player:     pl,
		analyzer:   a,
		fft:        tr,
		window:     win,
		slots:      cfg.SlotArray(),
		env:        cfg.Envelope.ADSR(),
		volume:     cfg.MasterVolume,
		eqGains:    [5]float64{1, 1, 1, 1, 1},
		draggingEQ: -1,
		status:     "Ready",
		textCache:  make(map[string]*ebiten.Image, 256),
		viewW:      windowW,
		viewH:      windowH,
	}, nil
}

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *game) handleKeys() {
	for i, k := range noteKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.pressed[i] = true
			g.report(g.player.NotePress(i))
		}
		if inpututil.IsKeyJustReleased(k) {
			g.pressed[i] = false
			g.report(g.player.NoteRelease(i))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.pressed = [17]bool{}
		g.report(g.player.AllNotesOff())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.slotIdx = (g.slotIdx + 1) % voice.NumSlots
	}

	p := g.slots[g.slotIdx]
	changed := false
	for i, k := range waveKeys {
		if inpututil.IsKeyJustPressed(k) {
			p.Wave = waveform.All()[i]
			p.Enabled = true
			changed = true
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		p.Enabled = !p.Enabled
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && p.Unison < voice.MaxUnison:
		p.Unison++
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && p.Unison > 1:
		p.Unison--
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		p.Detune = math.Min(1, p.Detune+0.05)
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		p.Detune = math.Max(0, p.Detune-0.05)
		changed = true
	}
	if changed {
		if err := g.player.SetOscillator(g.slotIdx, p); err != nil {
			g.setError(err.Error())
			return
		}
		g.slots[g.slotIdx] = p
		g.setStatus(fmt.Sprintf("slot %d: %s", g.slotIdx+1, slotLabel(p)))
	}

	g.envKey(ebiten.KeyZ, ebiten.KeyX, envelope.Attack, &g.env.AttackTime)
	g.envKey(ebiten.KeyC, ebiten.KeyV, envelope.Decay, &g.env.DecayTime)
	g.envKey(ebiten.KeyB, ebiten.KeyN, envelope.Release, &g.env.ReleaseTime)
}

// envKey halves or doubles an envelope time.
func (g *game) envKey(down, up ebiten.Key, param envelope.Param, v *float64) {
	next := *v
	switch {
	case inpututil.IsKeyJustPressed(down):
		next /= 2
	case inpututil.IsKeyJustPressed(up):
		next = math.Max(next*2, 0.01)
	default:
		return
	}
	if err := g.player.SetEnvelope(param, next); err != nil {
		g.setError(err.Error())
		return
	}
	*v = next
	g.setStatus(fmt.Sprintf("%s %.3fs", param, next))
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	l := g.layoutRects()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case pointInRect(mx, my, l.volume):
			g.draggingVolume = true
		case pointInRect(mx, my, l.eq):
			g.draggingEQ = g.eqBandFromMouse(mx, l.eq)
		}
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.draggingVolume = false
		g.draggingEQ = -1
	}
	if g.draggingVolume {
		g.updateVolumeFromMouse(mx, l.volume)
	}
	if g.draggingEQ >= 0 {
		g.dragEQ(my, l.eq)
	}
}

type uiLayout struct {
	keys, slots, eq, scope image.Rectangle
	volume, status         image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	w := max(g.viewW, minWindowW)
	h := max(g.viewH, minWindowH)
	pad := 20
	statusH := 40
	rowH := 44
	keysH := 140

	statusTop := h - pad - statusH
	volumeTop := statusTop - 8 - rowH
	keysTop := volumeTop - 12 - keysH
	leftW := 340
	slotsH := 200

	return uiLayout{
		slots:  image.Rect(pad, pad, pad+leftW, pad+slotsH),
		eq:     image.Rect(pad, pad+slotsH+12, pad+leftW, keysTop-12),
		scope:  image.Rect(pad+leftW+12, pad, w-pad, keysTop-12),
		keys:   image.Rect(pad, keysTop, w-pad, keysTop+keysH),
		volume: image.Rect(pad, volumeTop, w-pad, volumeTop+rowH),
		status: image.Rect(pad, statusTop, w-pad, statusTop+statusH),
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()

	g.drawSunkenPanel(screen, l.slots)
	g.drawPanel(screen, l.eq)
	g.drawDarkPanel(screen, l.scope)
	g.drawPanel(screen, l.keys)
	g.drawPanel(screen, l.volume)
	g.drawSunkenPanel(screen, l.status)

	g.drawSlots(screen, l.slots)
	g.drawEQ(screen, l.eq)
	g.drawScope(screen, l.scope)
	g.drawKeyboard(screen, l.keys)
	g.drawVolumeSlider(screen, l.volume)
	g.drawStatus(screen, l.status)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

func (g *game) Close() { _ = g.player.Stop() }

func slotLabel(p voice.SlotParams) string {
	state := "off"
	if p.Enabled {
		state = "on"
	}
	return fmt.Sprintf("%-3s %-8s x%-2d %.2f", state, p.Wave, p.Unison, p.Detune)
}

func (g *game) drawSlots(screen *ebiten.Image, rect image.Rectangle) {
	x, y := rect.Min.X+8, rect.Min.Y+8
	for i, p := range g.slots {
		if i == g.slotIdx {
			ebitenutil.DrawRect(screen, float64(rect.Min.X+4), float64(y-2), float64(rect.Dx()-8), float64(lineH), highlightColor)
		}
		g.drawText(screen, fmt.Sprintf("%d %s", i+1, slotLabel(p)), x, y)
		y += lineH + 4
	}
	y += 8
	g.drawText(screen, fmt.Sprintf("A %.2f D %.2f R %.2f", g.env.AttackTime, g.env.DecayTime, g.env.ReleaseTime), x, y)
}

func (g *game) drawKeyboard(screen *ebiten.Image, rect image.Rectangle) {
	inner := image.Rect(rect.Min.X+8, rect.Min.Y+8, rect.Max.X-8, rect.Max.Y-8)
	keyW := float64(inner.Dx()) / float64(len(noteKeys))
	for i := range noteKeys {
		fill := whiteKeyColor
		switch i % 12 {
		case 1, 3, 6, 8, 10:
			fill = blackKeyColor
		}
		if g.pressed[i] {
			fill = highlightColor
		}
		x := float64(inner.Min.X) + float64(i)*keyW
		ebitenutil.DrawRect(screen, x+1, float64(inner.Min.Y), keyW-2, float64(inner.Dy()), fill)
		g.drawText(screen, noteLabels[i], int(x+keyW/2)-charW/2, inner.Max.Y-lineH-4)
	}
}

func (g *game) drawScope(screen *ebiten.Image, rect image.Rectangle) {
	inner := image.Rect(rect.Min.X+8, rect.Min.Y+8, rect.Max.X-8, rect.Max.Y-8)
	width, height := inner.Dx(), inner.Dy()
	if width <= 0 || height <= 0 {
		return
	}
	if g.scopeImg == nil || g.scopeImg.Bounds().Dx() != width || g.scopeImg.Bounds().Dy() != height {
		g.scopeImg = ebiten.NewImage(width, height)
	}
	g.scopeImg.Fill(color.RGBA{14, 16, 22, 255})

	snap := g.analyzer.Snapshot(fftSize)
	waveH := int(float64(height) * 0.45)
	g.drawWaveform(g.scopeImg, snap, width, waveH)
	ebitenutil.DrawRect(g.scopeImg, 0, float64(waveH), float64(width), 1, color.RGBA{50, 54, 68, 180})
	g.drawSpectrumBars(g.scopeImg, snap, width, height-waveH-1, waveH+1)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(inner.Min.X), float64(inner.Min.Y))
	screen.DrawImage(g.scopeImg, op)
}

func (g *game) drawWaveform(dst *ebiten.Image, samples []float32, width, height int) {
	if len(samples) < 2 || width < 2 || height < 4 {
		return
	}
	midY := height / 2
	ebitenutil.DrawRect(dst, 0, float64(midY), float64(width), 1, color.RGBA{40, 44, 58, 100})

	// Auto-gain: fast attack, slow release.
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	peak = math.Max(peak, 0.01)
	if peak > g.wavePeak {
		g.wavePeak = g.wavePeak*0.3 + peak*0.7
	} else {
		g.wavePeak = g.wavePeak*0.995 + peak*0.005
	}
	gain := float64(midY-2) / math.Max(g.wavePeak, 0.01)

	trigger := findZeroCrossing(samples, len(samples)/4)
	visible := max(len(samples)-trigger, 2)
	waveColor := color.RGBA{80, 200, 255, 220}
	prevY := midY - int(float64(samples[trigger])*gain)
	for px := 1; px < width; px++ {
		si := min(trigger+px*visible/width, len(samples)-1)
		y := midY - int(float64(samples[si])*gain)
		ebitenutil.DrawLine(dst, float64(px-1), float64(prevY), float64(px), float64(y), waveColor)
		prevY = y
	}
}

// findZeroCrossing finds a rising zero crossing to keep the scope still.
func findZeroCrossing(samples []float32, searchLen int) int {
	searchLen = min(searchLen, len(samples)-2)
	for i := 1; i < searchLen; i++ {
		if samples[i-1] <= 0 && samples[i] > 0 {
			return i
		}
	}
	return 0
}

func (g *game) drawSpectrumBars(dst *ebiten.Image, samples []float32, width, height, yOffset int) {
	if len(samples) < fftSize || width < 4 || height < 4 {
		return
	}
	buf := make([]complex128, fftSize)
	for i := range buf {
		buf[i] = complex(float64(samples[i])*g.window[i], 0)
	}
	buf = g.fft.Transform(buf)

	numBars := min(max(width/3, 16), 256)
	if len(g.specBins) != numBars {
		g.specBins = make([]float64, numBars)
	}
	half := fftSize / 2
	sr := g.player.SampleRate()
	maxBin := min(half*18000/(sr/2), half)
	logMin, logMax := 0.0, math.Log(float64(maxBin))

	for i := range numBars {
		b0 := int(math.Exp(logMin + float64(i)/float64(numBars)*(logMax-logMin)))
		b1 := int(math.Exp(logMin + float64(i+1)/float64(numBars)*(logMax-logMin)))
		b1 = min(max(b1, b0+1), half)
		var sum float64
		for b := b0; b < b1; b++ {
			sum += cmplx.Abs(buf[b])
		}
		avg := sum / float64(max(b1-b0, 1))
		db := 20 * math.Log10(avg/fftSize+1e-10)
		norm := clamp((db+80)/80, 0, 1)
		if prev := g.specBins[i]; norm > prev {
			g.specBins[i] = prev*0.3 + norm*0.7
		} else {
			g.specBins[i] = prev*0.85 + norm*0.15
		}
	}

	barW := float64(width) / float64(numBars)
	for i, v := range g.specBins {
		barH := math.Max(v*float64(height-4), 1)
		x := float64(i) * barW
		y := float64(yOffset) + float64(height-2) - barH
		r, gr, b := spectrumColor(v)
		ebitenutil.DrawRect(dst, x+1, y, barW-1, barH, color.RGBA{r, gr, b, 220})
	}
}

func spectrumColor(v float64) (uint8, uint8, uint8) {
	if v < 0.33 {
		t := v / 0.33
		return uint8(30 + 20*t), uint8(80 + 120*t), uint8(200 + 55*t)
	}
	if v < 0.66 {
		t := (v - 0.33) / 0.33
		return uint8(50 + 140*t), uint8(200 + 30*t), uint8(255 - 100*t)
	}
	t := (v - 0.66) / 0.34
	return uint8(190 + 65*t), uint8(230 - 100*t), uint8(155 - 100*t)
}

func (g *game) drawVolumeSlider(screen *ebiten.Image, rect image.Rectangle) {
	label := fmt.Sprintf("Vol %3d%%", int(math.Round(g.volume*100)))
	g.drawText(screen, label, rect.Min.X+8, rect.Min.Y+(rect.Dy()-lineH)/2)
	trackX, trackW := volumeTrack(rect)
	trackY := rect.Min.Y + rect.Dy()/2 - 4
	ebitenutil.DrawRect(screen, float64(trackX), float64(trackY), float64(trackW), 8, bevelDarker)
	fillW := int(g.volume * float64(trackW))
	if fillW > 1 {
		ebitenutil.DrawRect(screen, float64(trackX+1), float64(trackY+1), float64(fillW-1), 6, sliderFillColor)
	}
	knob := image.Rect(trackX+fillW-6, trackY-6, trackX+fillW+6, trackY+14)
	ebitenutil.DrawRect(screen, float64(knob.Min.X), float64(knob.Min.Y), float64(knob.Dx()), float64(knob.Dy()), panelColor)
	drawBorder(screen, knob)
}

func volumeTrack(rect image.Rectangle) (x, w int) {
	x = rect.Min.X + 10*charW
	return x, rect.Max.X - 16 - x
}

func (g *game) updateVolumeFromMouse(mx int, rect image.Rectangle) {
	trackX, trackW := volumeTrack(rect)
	g.volume = clamp(float64(mx-trackX)/float64(trackW), 0, 1)
	g.player.SetMasterVolume(g.volume)
}

func (g *game) drawEQ(screen *ebiten.Image, rect image.Rectangle) {
	g.drawText(screen, "EQ", rect.Min.X+8, rect.Min.Y+6)
	top := rect.Min.Y + lineH + 12
	bh := rect.Max.Y - 10 - top
	bw := (rect.Dx() - 16) / len(g.eqGains)
	for i, gain := range g.eqGains {
		bx := rect.Min.X + 8 + i*bw
		ebitenutil.DrawRect(screen, float64(bx+bw/2-2), float64(top), 4, float64(bh), bevelDarker)
		centerY := top + bh/2
		ebitenutil.DrawRect(screen, float64(bx), float64(centerY), float64(bw), 1, borderColor)
		ky := top + int((1-gain/2)*float64(bh))
		knob := image.Rect(bx+4, ky-5, bx+bw-4, ky+5)
		ebitenutil.DrawRect(screen, float64(knob.Min.X), float64(knob.Min.Y), float64(knob.Dx()), float64(knob.Dy()), panelColor)
		drawBorder(screen, knob)
	}
}

func (g *game) eqBandFromMouse(mx int, rect image.Rectangle) int {
	bw := (rect.Dx() - 16) / len(g.eqGains)
	return min(max((mx-rect.Min.X-8)/bw, 0), len(g.eqGains)-1)
}

// dragEQ maps the slider to 0..2, 1 being unity.
func (g *game) dragEQ(my int, rect image.Rectangle) {
	top := rect.Min.Y + lineH + 12
	bh := rect.Max.Y - 10 - top
	gain := clamp(2*(1-float64(my-top)/float64(bh)), 0, 2)
	if math.Abs(gain-1) < 0.05 {
		gain = 1
	}
	g.eqGains[g.draggingEQ] = gain
	g.player.SetEQBand(g.draggingEQ, float32(gain))
}

func (g *game) drawStatus(screen *ebiten.Image, rect image.Rectangle) {
	msg := "Status: " + g.status
	if g.statusErr {
		msg = "Status: ERROR - " + g.status
	}
	maxChars := max(8, (rect.Dx()-16)/charW)
	if r := []rune(msg); len(r) > maxChars {
		msg = string(r[:maxChars-3]) + "..."
	}
	g.drawText(screen, msg, rect.Min.X+8, rect.Min.Y+6)
}

func (g *game) report(err error) {
	if err != nil {
		g.setError(err.Error())
	}
}

func (g *game) setError(msg string) {
	g.status = msg
	g.statusErr = true
}

func (g *game) setStatus(msg string) {
	g.status = msg
	g.statusErr = false
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

func (g *game) drawDarkPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), color.RGBA{0, 0, 0, 255})
	drawSunkenBorder(screen, rect)
}

// drawBorder draws a raised bevel.
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws a sunken bevel.
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		img = ebiten.NewImage(max(1, len([]rune(msg))*7), 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 1000 {
			g.textCache = make(map[string]*ebiten.Image, 256)
		}
		g.textCache[msg] = img
	}
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, opS)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

func main() {
	var (
		cfgPath     = flag.String("config", "", "patch file (default: built-in patch)")
		backendName = flag.String("backend", "ebiten", "audio backend: ebiten|oto|portaudio|null")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Read(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	backend, err := audio.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	g, err := newGame(cfg, backend)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("polysynth")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
