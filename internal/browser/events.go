package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"ui-probe/internal/entity"
	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
)

const (
	eventDialog  = "dialog"
	eventConsole = "console"

	clickBindingPrefix = "__uiProbeClick_"
)

// DialogAction tells the page how to answer a dialog.
type DialogAction struct {
	Accept bool
	// PromptText is typed into prompt dialogs when accepting.
	PromptText string
}

type (
	DialogHandler  func(entity.DialogEvent) DialogAction
	ConsoleHandler func(entity.ConsoleEvent)
)

type dialogListener struct {
	id uuid.UUID
	fn DialogHandler
}

type consoleListener struct {
	id uuid.UUID
	fn ConsoleHandler
}

// Subscription detaches a handler registered on a page. Closing the page
// closes every subscription on it.
type Subscription struct {
	id      entity.SubscriptionID
	once    sync.Once
	release func()
}

func (s *Subscription) ID() entity.SubscriptionID {
	return s.id
}

func (s *Subscription) Close() {
	s.once.Do(s.release)
}

// OnDialog registers fn for every alert, confirm, prompt and beforeunload
// dialog. Each handler sees every dialog; the most recently registered one
// decides the answer. With no handler left, dialogs are dismissed.
func (p *Page) OnDialog(fn DialogHandler) *Subscription {
	id := uuid.New()

	p.mu.Lock()
	p.dialogs = append(p.dialogs, dialogListener{id: id, fn: fn})
	p.wireLocked(eventDialog)
	p.mu.Unlock()

	return &Subscription{id: id, release: func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		for i, l := range p.dialogs {
			if l.id == id {
				p.dialogs = append(p.dialogs[:i], p.dialogs[i+1:]...)
				break
			}
		}
	}}
}

// OnConsole registers fn for every console message of the page.
func (p *Page) OnConsole(fn ConsoleHandler) *Subscription {
	id := uuid.New()

	p.mu.Lock()
	p.consoles = append(p.consoles, consoleListener{id: id, fn: fn})
	p.wireLocked(eventConsole)
	p.mu.Unlock()

	return &Subscription{id: id, release: func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		for i, l := range p.consoles {
			if l.id == id {
				p.consoles = append(p.consoles[:i], p.consoles[i+1:]...)
				break
			}
		}
	}}
}

// wireLocked installs the single playwright listener that fans out to the
// registered handlers. Callers hold p.mu.
func (p *Page) wireLocked(event string) {
	if p.wired[event] {
		return
	}
	p.wired[event] = true

	switch event {
	case eventDialog:
		p.page.OnDialog(p.dispatchDialog)
	case eventConsole:
		p.page.OnConsole(p.dispatchConsole)
	}
}

func (p *Page) dispatchDialog(dialog playwright.Dialog) {
	event := entity.DialogEvent{
		Type:         dialog.Type(),
		Message:      dialog.Message(),
		DefaultValue: dialog.DefaultValue(),
	}

	p.mu.Lock()
	listeners := append([]dialogListener(nil), p.dialogs...)
	p.mu.Unlock()

	action := DialogAction{}
	for _, l := range listeners {
		action = l.fn(event)
	}

	var err error
	if action.Accept {
		err = dialog.Accept(action.PromptText)
	} else {
		err = dialog.Dismiss()
	}

	if err != nil {
		p.logger.Warn("dialog answer failed", zap.String("dialog_type", event.Type), zap.Error(err))
	}
}

func (p *Page) dispatchConsole(message playwright.ConsoleMessage) {
	event := entity.ConsoleEvent{
		Type: message.Type(),
		Text: message.Text(),
	}

	p.mu.Lock()
	listeners := append([]consoleListener(nil), p.consoles...)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(event)
	}
}

func (p *Page) closeSubscriptions() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dialogs = nil
	p.consoles = nil
}

// ClickLog accumulates the clicks a page reports through its exposed
// binding.
type ClickLog struct {
	binding string

	mu     sync.Mutex
	events []entity.ClickEvent
}

// Events returns a copy of the clicks recorded so far.
func (l *ClickLog) Events() []entity.ClickEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]entity.ClickEvent(nil), l.events...)
}

func (l *ClickLog) record(args ...interface{}) interface{} {
	if len(args) == 0 {
		return nil
	}

	event, ok := parseClickEvent(args[0])
	if !ok {
		return nil
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	return nil
}

// RecordClicks starts recording clicks on the current document and on every
// document the page navigates to later. Each call returns an independent log
// backed by its own binding.
func (p *Page) RecordClicks(ctx context.Context) (*ClickLog, error) {
	const op = "RecordClicks"
	logger := p.logger.With(zap.String(logg.Operation, op))

	log := &ClickLog{binding: clickBindingPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.page.ExposeFunction(log.binding, log.record); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "expose_binding_failed",
			apperr.MetaStage:  apperr.StageEvaluate,
		})
	}

	script := fmt.Sprintf(clickRecorderScript, log.binding)

	if err := p.page.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "init_script_failed",
			apperr.MetaStage:  apperr.StageEvaluate,
		})
	}

	if _, err := p.page.Evaluate(script); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "install_recorder_failed",
			apperr.MetaStage:  apperr.StageEvaluate,
		})
	}

	logger.Debug("click recorder installed", zap.String("binding", log.binding))

	return log, nil
}

func parseClickEvent(raw interface{}) (entity.ClickEvent, bool) {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return entity.ClickEvent{}, false
	}

	return entity.ClickEvent{
		Timestamp:   time.UnixMilli(int64(toFloat(fields["timestamp"]))),
		X:           toFloat(fields["x"]),
		Y:           toFloat(fields["y"]),
		Target:      toString(fields["target"]),
		TargetID:    toString(fields["id"]),
		TargetClass: toString(fields["className"]),
	}, true
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}

	return ""
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}

	return 0
}

func stringMap(v interface{}) map[string]string {
	out := make(map[string]string)

	fields, ok := v.(map[string]interface{})
	if !ok {
		return out
	}

	for k, raw := range fields {
		out[k] = toString(raw)
	}

	return out
}
