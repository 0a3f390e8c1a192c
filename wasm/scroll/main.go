//go:build js && wasm

// Command scroll is the browser side of the site: it loops the project
// container endlessly and runs the clocks, typewriters and logo effects. Build with
// GOOS=js GOARCH=wasm and load next to wasm_exec.js.
package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand/v2"
	"sync"
	"syscall/js"
	"time"

	"github.com/Zachkp/syscry/internal/effects"
	"github.com/Zachkp/syscry/internal/scroll"
)

var (
	window   = js.Global()
	document = js.Global().Get("document")
)

// page implements scroll.Host over the window.
type page struct{}

func (page) Find(selector string) scroll.Container {
	el := document.Call("querySelector", selector)
	if el.IsNull() || el.IsUndefined() {
		return nil
	}
	return &element{el: el, snapshot: el.Get("innerHTML").String()}
}

func (page) ScrollY() float64 {
	if y := window.Get("pageYOffset"); y.Truthy() {
		return y.Float()
	}
	return document.Get("documentElement").Get("scrollTop").Float()
}

func (page) ViewportHeight() float64 {
	return window.Get("innerHeight").Float()
}

func (page) ScrollTo(y float64) {
	window.Call("scrollTo", 0, y)
}

func (page) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	window.Call("requestAnimationFrame", cb)
}

func (page) Listen(onScroll, onResize func()) func() {
	scrollFn := js.FuncOf(func(js.Value, []js.Value) any { onScroll(); return nil })
	resizeFn := js.FuncOf(func(js.Value, []js.Value) any { onResize(); return nil })
	passive := map[string]any{"passive": true}
	window.Call("addEventListener", "scroll", scrollFn, passive)
	window.Call("addEventListener", "resize", resizeFn)

	var once sync.Once
	return func() {
		once.Do(func() {
			window.Call("removeEventListener", "scroll", scrollFn, passive)
			window.Call("removeEventListener", "resize", resizeFn)
			scrollFn.Release()
			resizeFn.Release()
		})
	}
}

// element implements scroll.Container over a DOM element.
type element struct {
	el       js.Value
	snapshot string
	sections []js.Value
}

func (e *element) Snapshot() string { return e.snapshot }

func (e *element) ScrollHeight() float64 { return e.el.Get("scrollHeight").Float() }

func (e *element) Images() []scroll.Image {
	list := e.el.Call("querySelectorAll", "img")
	images := make([]scroll.Image, list.Length())
	for i := range images {
		images[i] = image{list.Index(i)}
	}
	return images
}

func (e *element) Mount(sections []scroll.Section) {
	wrapper := document.Call("createElement", "div")
	wrapper.Set("className", scroll.WrapperClass)
	e.sections = e.sections[:0]
	for _, s := range sections {
		div := document.Call("createElement", "div")
		div.Set("className", scroll.SectionClass)
		div.Get("dataset").Set("section", string(s.Tag))
		div.Set("innerHTML", s.Content)
		wrapper.Call("appendChild", div)
		e.sections = append(e.sections, div)
	}
	e.el.Set("innerHTML", "")
	e.el.Call("appendChild", wrapper)
}

func (e *element) MeasureSection(i int) float64 {
	if i < 0 || i >= len(e.sections) {
		return 0
	}
	return e.sections[i].Get("offsetHeight").Float()
}

type image struct{ el js.Value }

func (img image) Complete() bool { return img.el.Get("complete").Bool() }

func (img image) OnSettle(fn func()) {
	var (
		once   sync.Once
		settle js.Func
	)
	settle = js.FuncOf(func(js.Value, []js.Value) any {
		once.Do(func() {
			img.el.Call("removeEventListener", "load", settle)
			img.el.Call("removeEventListener", "error", settle)
			settle.Release()
			fn()
		})
		return nil
	})
	img.el.Call("addEventListener", "load", settle)
	img.el.Call("addEventListener", "error", settle)
}

// runClocks updates #after with the elapsed time and #before with the
// countdown on every animation frame.
func runClocks() {
	after := document.Call("getElementById", "after")
	before := document.Call("getElementById", "before")
	if after.IsNull() && before.IsNull() {
		return
	}

	var tick js.Func
	tick = js.FuncOf(func(js.Value, []js.Value) any {
		now := time.Now()
		if !after.IsNull() {
			after.Set("textContent", effects.Elapsed(effects.Since, now))
		}
		if !before.IsNull() {
			text, _ := effects.Countdown(effects.Until, now)
			before.Set("textContent", text)
		}
		window.Call("requestAnimationFrame", tick)
		return nil
	})
	window.Call("requestAnimationFrame", tick)
}

func each(selector string, fn func(el js.Value)) {
	list := document.Call("querySelectorAll", selector)
	for i := 0; i < list.Length(); i++ {
		fn(list.Index(i))
	}
}

func on(el js.Value, event string, fn func()) {
	el.Call("addEventListener", event, js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	}))
}

// runTypewriters starts a typewriter on every [sys-typewriter] element.
func runTypewriters() {
	each("[sys-typewriter]", func(el js.Value) {
		attrs := map[string]string{}
		for _, name := range []string{"sys-typewriter", "period", "writing", "cursor", "color"} {
			if v := el.Call("getAttribute", name); !v.IsNull() {
				attrs[name] = v.String()
			}
		}
		cfg, err := effects.ParseTypewriter(attrs, el.Get("textContent").String())
		if err != nil {
			window.Get("console").Call("error", err.Error())
			return
		}

		el.Set("textContent", "")
		text := document.Call("createElement", "span")
		el.Call("appendChild", text)
		cursor := document.Call("createElement", "span")
		cursor.Get("classList").Call("add", "blinking-cursor-"+cfg.Cursor)
		cursor.Set("textContent", cfg.Cursor)
		cursor.Get("style").Set("color", cfg.CursorColor)
		el.Call("appendChild", cursor)

		tw := effects.NewTypewriter(cfg, rand.Float64)
		go func() {
			for {
				shown, delay, ok := tw.Next()
				text.Set("textContent", shown)
				if !ok {
					return
				}
				time.Sleep(delay)
			}
		}()
	})
}

// runHoverText retypes [data-hover-text] elements on hover and back on leave.
func runHoverText() {
	each("[data-hover-text]", func(el js.Value) {
		hover := el.Call("getAttribute", "data-hover-text").String()
		original := el.Get("textContent").String()
		var (
			mu        sync.Mutex
			animating bool
		)
		typeOut := func(text string) {
			mu.Lock()
			if animating {
				mu.Unlock()
				return
			}
			animating = true
			mu.Unlock()
			go func() {
				for _, frame := range effects.TypeFrames(text) {
					el.Set("textContent", frame)
					time.Sleep(effects.HoverInterval)
				}
				mu.Lock()
				animating = false
				mu.Unlock()
			}()
		}
		on(el, "mouseenter", func() { typeOut(hover) })
		on(el, "mouseleave", func() { typeOut(original) })
	})
}

// logo drives the scramble effects of one .typewriter.sys element.
type logo struct {
	text js.Value
	scr  *effects.Scrambler

	mu       sync.Mutex
	revealed bool
	hovering bool
	gen      int
	phase    float64
}

func (l *logo) reveal() {
	for _, f := range l.scr.Reveal() {
		l.text.Set("textContent", f.Text)
		time.Sleep(f.Delay)
	}
	l.mu.Lock()
	l.revealed = true
	l.mu.Unlock()
}

func (l *logo) enter() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hovering || !l.revealed {
		return
	}
	l.hovering = true
	l.gen++
	l.phase = 0
	window.Call("requestAnimationFrame", l.frame(l.gen))
}

// frame returns a one-shot rAF callback that draws one wave frame and
// schedules the next while the hover of generation gen lasts.
func (l *logo) frame(gen int) js.Func {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		l.mu.Lock()
		defer l.mu.Unlock()
		if !l.hovering || l.gen != gen {
			return nil
		}
		l.phase += effects.WavePhaseStep
		l.text.Set("textContent", l.scr.Wave(l.phase))
		window.Call("requestAnimationFrame", l.frame(gen))
		return nil
	})
	return cb
}

func (l *logo) leave() {
	l.mu.Lock()
	if !l.hovering {
		l.mu.Unlock()
		return
	}
	l.hovering = false
	l.gen++
	gen := l.gen
	frames := l.scr.Settle(l.text.Get("textContent").String())
	l.mu.Unlock()

	go func() {
		for _, f := range frames {
			l.mu.Lock()
			stale := l.gen != gen
			l.mu.Unlock()
			if stale {
				return
			}
			l.text.Set("textContent", f.Text)
			time.Sleep(f.Delay)
		}
	}()
}

// runLogos reveals every .typewriter.sys logo and scrambles it on hover of
// the element or its enclosing link.
func runLogos() {
	each(".typewriter.sys", func(el js.Value) {
		text := el.Call("querySelector", "span")
		if text.IsNull() {
			text = el
		}
		l := &logo{text: text, scr: effects.NewScrambler(effects.LogoText, nil)}
		go l.reveal()

		target := el.Call("closest", "a")
		if target.IsNull() {
			target = el
		}
		on(target, "mouseenter", l.enter)
		on(target, "mouseleave", l.leave)
	})
}

func expose(c *scroll.Controller) {
	api := map[string]any{
		"state": js.FuncOf(func(js.Value, []js.Value) any {
			data, err := json.Marshal(c.State())
			if err != nil {
				return js.Null()
			}
			return window.Get("JSON").Call("parse", string(data))
		}),
		"recalculate": js.FuncOf(func(js.Value, []js.Value) any {
			go c.Recalculate()
			return nil
		}),
		"destroy": js.FuncOf(func(js.Value, []js.Value) any {
			go c.Close()
			return nil
		}),
	}
	window.Set("InfiniteScroll", api)
}

func start() {
	c := scroll.New(page{}, scroll.DefaultOptions())
	expose(c)
	go func() {
		if err := c.Init(context.Background()); err != nil {
			log.Printf("infinite scroll: %v", err)
		}
	}()
	runClocks()
	runTypewriters()
	runHoverText()
	runLogos()
}

func main() {
	if document.Get("readyState").String() == "loading" {
		var ready js.Func
		ready = js.FuncOf(func(js.Value, []js.Value) any {
			ready.Release()
			start()
			return nil
		})
		document.Call("addEventListener", "DOMContentLoaded", ready)
	} else {
		start()
	}
	select {}
}
