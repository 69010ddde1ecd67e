//go:build acceptance

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"ui-probe/internal/browser"
	"ui-probe/internal/config"
	"ui-probe/internal/entity"
	"ui-probe/internal/locator"
	"ui-probe/internal/usecase"
	"ui-probe/internal/visibility"
)

var session *browser.Session

func acceptanceConfig() *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{LogLevel: "info", ServiceName: "ui-probe-acceptance"},
		BrowserConfig: &config.BrowserConfig{
			Engine:         config.EngineChromium,
			Headless:       true,
			Timeout:        5000,
			ViewportWidth:  1024,
			ViewportHeight: 768,
			Install:        os.Getenv("BROWSER_INSTALL") == "true",
		},
		ProbeConfig: &config.ProbeConfig{
			QueryTimeout:       500 * time.Millisecond,
			PollAttempt:        time.Second,
			PollInterval:       time.Second,
			VisibilityStrategy: config.StrategyStackScan,
		},
	}
}

func TestMain(m *testing.M) {
	session = browser.NewSession(browser.Params{Config: acceptanceConfig(), Logger: zap.NewNop()})

	ctx := context.Background()
	if err := session.Launch(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := session.Close(ctx); err != nil {
		panic(err)
	}

	os.Exit(code)
}

func newFixture(t *testing.T, html string) (*browser.Page, *usecase.ProbeService) {
	t.Helper()

	ctx := context.Background()

	page, err := session.NewPage(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = page.Close(ctx)
	})

	require.NoError(t, page.SetContent(ctx, html))

	conf := acceptanceConfig()
	logger := zaptest.NewLogger(t)

	probe := usecase.NewProbeService(usecase.ProbeServiceParams{
		Config:   conf,
		Logger:   logger,
		Locator:  locator.New(locator.Params{Config: conf, Logger: logger}),
		Resolver: visibility.New(visibility.Params{Config: conf, Logger: logger}),
	})

	return page, probe
}

const shadowFixture = `
<div id="shadow-host"></div>
<script>
	const root = document.getElementById('shadow-host').attachShadow({ mode: 'open' });
	root.innerHTML = '<button id="go" onclick="this.textContent = \'clicked\'">Go</button>';
</script>`

func TestShadowAnchoredLocateAndClick(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, shadowFixture)

	el, err := probe.Locate(ctx, page, entity.SelectorPath{"#go"}, entity.LocateOptions{FrameAnchor: "#shadow-host"})
	require.NoError(t, err)
	require.NotNil(t, el)

	require.NoError(t, el.Click(ctx))

	text, err := el.Evaluate(ctx, `(el) => el.textContent`, nil)
	require.NoError(t, err)
	assert.Equal(t, "clicked", text)
}

const iframeFixture = `<iframe id="f" srcdoc="<button id='inner'>inside</button>"></iframe>`

func TestFrameAnchoredLocate(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, iframeFixture)

	require.Eventually(t, func() bool {
		el, err := probe.Locate(ctx, page, entity.SelectorPath{"#inner"}, entity.LocateOptions{
			FrameAnchor:    "#f",
			SegmentTimeout: 200 * time.Millisecond,
		})
		return err == nil && el != nil
	}, 5*time.Second, 100*time.Millisecond)
}

const overlayFixture = `
<button id="target" style="position: absolute; top: 100px; left: 100px; width: 120px; height: 40px">Target</button>
<div id="overlay" style="position: fixed; inset: 0; z-index: 10; background: rgba(0, 0, 0, 0.5)"></div>`

func TestOverlayRemovalRestoresVisibility(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, overlayFixture)

	verdict := probe.Check(ctx, page, "#target")
	assert.False(t, verdict.Visible)
	assert.Equal(t, entity.ReasonOccluded, verdict.Reason)
	assert.Equal(t, "div#overlay", verdict.Blocker)
	assert.False(t, probe.IsNotObstructed(ctx, page, "#target"))

	_, err := page.Evaluate(ctx, `() => document.getElementById('overlay').remove()`, nil)
	require.NoError(t, err)

	assert.True(t, probe.IsVisible(ctx, page, "#target"))
	assert.True(t, probe.IsNotObstructed(ctx, page, "#target"))
}

func TestHiddenAndOffscreen(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, `
<button id="hidden" style="visibility: hidden">hidden</button>
<button id="away" style="position: absolute; top: 5000px">away</button>`)

	assert.Equal(t, entity.ReasonHiddenByStyle, probe.Check(ctx, page, "#hidden").Reason)
	assert.Equal(t, entity.ReasonOffscreen, probe.Check(ctx, page, "#away").Reason)
	assert.Equal(t, entity.ReasonNotFound, probe.Check(ctx, page, "#missing").Reason)
}

func TestWaitForElementNeverAppears(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, `<p>empty</p>`)

	started := time.Now()
	el, err := probe.WaitForElement(ctx, page, "#never", 2*time.Second)
	elapsed := time.Since(started)

	require.NoError(t, err)
	assert.Nil(t, el)
	assert.GreaterOrEqual(t, elapsed, 1900*time.Millisecond)
	assert.Less(t, elapsed, 4*time.Second)
}

func TestWaitForElementLateArrival(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, `
<script>
	setTimeout(() => {
		const b = document.createElement('button');
		b.id = 'late';
		b.textContent = 'late';
		document.body.appendChild(b);
	}, 1500);
</script>`)

	el, err := probe.WaitForElement(ctx, page, "#late", 5*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, el)
}

func TestIsDisabled(t *testing.T) {
	ctx := context.Background()
	page, probe := newFixture(t, `<button id="off" disabled>off</button><button id="on">on</button>`)

	assert.True(t, probe.IsDisabled(ctx, page, "#off", time.Second))
	assert.False(t, probe.IsDisabled(ctx, page, "#on", time.Second))

	assert.True(t, probe.IsDisabled(ctx, page, `xpath=//button[@id="off"]`, time.Second))
	assert.True(t, probe.IsDisabled(ctx, page, "text=off", time.Second))
	assert.False(t, probe.IsDisabled(ctx, page, "body >> #on", 300*time.Millisecond))
}

func TestPageHelpers(t *testing.T) {
	ctx := context.Background()
	page, _ := newFixture(t, `
<input id="name" value="ali">
<input id="agree" type="checkbox" checked>
<p id="para" data-kind="intro" style="color: red">  hello world  </p>
<ul><li>a</li><li>b</li><li>c</li></ul>`)

	name, err := page.ElementByXPath(ctx, `//input[@id="name"]`, time.Second)
	require.NoError(t, err)
	require.NoError(t, browser.TypeInto(ctx, name, "alice"))

	value, err := page.InputValue(ctx, "#name")
	require.NoError(t, err)
	assert.Equal(t, "alice", value)

	text, err := page.TextContent(ctx, "#para")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	kind, ok, err := page.Attribute(ctx, "#para", "data-kind")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "intro", kind)

	_, ok, err = page.Attribute(ctx, "#para", "data-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	color, err := page.InlineStyle(ctx, "#para", "color")
	require.NoError(t, err)
	assert.Equal(t, "red", color)

	computed, err := page.ComputedStyle(ctx, "#para")
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 0, 0)", computed["color"])

	count, err := page.CountElements(ctx, "li")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	checked, err := page.IsChecked(ctx, "#agree")
	require.NoError(t, err)
	assert.True(t, checked)
}

func TestRecordClicks(t *testing.T) {
	ctx := context.Background()
	page, _ := newFixture(t, `<button id="save" class="primary">Save</button>`)

	log, err := page.RecordClicks(ctx)
	require.NoError(t, err)

	require.NoError(t, page.WaitAndClick(ctx, "#save"))

	require.Eventually(t, func() bool {
		return len(log.Events()) == 1
	}, 2*time.Second, 50*time.Millisecond)

	event := log.Events()[0]
	assert.Equal(t, "button", event.Target)
	assert.Equal(t, "save", event.TargetID)
	assert.Equal(t, "primary", event.TargetClass)
}

func TestDialogSubscription(t *testing.T) {
	ctx := context.Background()
	page, _ := newFixture(t, `<p>dialogs</p>`)

	var seen []entity.DialogEvent
	sub := page.OnDialog(func(e entity.DialogEvent) browser.DialogAction {
		seen = append(seen, e)
		return browser.DialogAction{Accept: true}
	})

	answer, err := page.Evaluate(ctx, `() => confirm('proceed?')`, nil)
	require.NoError(t, err)
	assert.Equal(t, true, answer)
	require.Len(t, seen, 1)
	assert.Equal(t, "confirm", seen[0].Type)

	sub.Close()

	answer, err = page.Evaluate(ctx, `() => confirm('again?')`, nil)
	require.NoError(t, err)
	assert.Equal(t, false, answer)
}

func TestScrollToBottom(t *testing.T) {
	ctx := context.Background()
	page, _ := newFixture(t, `<div style="height: 5000px">tall</div>`)

	scrolls, err := page.ScrollToBottom(ctx, 10, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, scrolls)

	y, err := page.Evaluate(ctx, `() => window.scrollY`, nil)
	require.NoError(t, err)
	assert.NotEqual(t, 0, y)
}

func TestNavigationHelpers(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a id="next" href="/next">next</a>`)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<input id="q"><div style="height: 3000px"></div><p id="end">end</p>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	page, probe := newFixture(t, `<p>start</p>`)

	require.NoError(t, page.LoadPage(ctx, server.URL))
	require.NoError(t, page.ClickAndWaitForNavigation(ctx, "#next"))
	assert.True(t, strings.HasSuffix(page.URL(), "/next"))

	q, err := probe.WaitForElement(ctx, page, "#q", 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, q)
	require.NoError(t, browser.SetValue(ctx, q, "probe"))

	value, err := page.InputValue(ctx, "#q")
	require.NoError(t, err)
	assert.Equal(t, "probe", value)

	assert.Equal(t, entity.ReasonOffscreen, probe.Check(ctx, page, "#end").Reason)
	require.NoError(t, page.ScrollIntoView(ctx, "#end"))
	assert.True(t, probe.IsVisible(ctx, page, "#end"))
}
