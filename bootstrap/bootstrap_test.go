package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/vlmscribe/component"
	"github.com/kbukum/vlmscribe/config"
	"github.com/kbukum/vlmscribe/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health

	mu      sync.Mutex
	started bool
	stopped bool
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) component.Health { return m.health }

func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "storage", Details: "provider=memory"}
}

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "test-svc", Version: "1.0.0", Environment: "development"}}
	opts = append([]Option{WithLogger(logger.Nop()), WithQuiet()}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if app.Components == nil || app.Summary == nil || app.Logger == nil {
		t.Fatal("expected registry, summary and logger")
	}
	if app.gracefulTimeout != defaultGracefulTimeout {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
}

func TestNewAppAppliesDefaultsAndValidates(t *testing.T) {
	app, err := NewApp(&testConfig{}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "vlmscribe" {
		t.Errorf("default name = %q", app.Name)
	}

	bad := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "moon"}}
	if _, err := NewApp(bad, WithLogger(logger.Nop())); err == nil {
		t.Error("expected validation error for unknown environment")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(5*time.Second), WithHealthTimeout(time.Second))
	if app.gracefulTimeout != 5*time.Second || app.healthTimeout != time.Second {
		t.Errorf("timeouts = %v/%v", app.gracefulTimeout, app.healthTimeout)
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name       string
		components []*mockComponent
		wantErr    string
	}{
		{name: "empty"},
		{name: "all healthy", components: []*mockComponent{healthy("a"), healthy("b")}},
		{
			name: "unhealthy",
			components: []*mockComponent{
				healthy("a"),
				{name: "redis", health: component.Health{Status: component.StatusUnhealthy, Message: "ping failed"}},
			},
			wantErr: "redis=unhealthy(ping failed)",
		},
		{
			name: "degraded",
			components: []*mockComponent{
				{name: "db", health: component.Health{Name: "db", Status: component.StatusDegraded}},
			},
			wantErr: "db=degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			for _, c := range tt.components {
				if err := app.RegisterComponent(c); err != nil {
					t.Fatal(err)
				}
			}
			err := app.ReadyCheck(context.Background())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ReadyCheck() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ReadyCheck() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(healthy("dup")); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterComponent(healthy("dup")); err == nil {
		t.Error("expected error for duplicate component")
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t)
	comp := healthy("store")
	if err := app.RegisterComponent(comp); err != nil {
		t.Fatal(err)
	}

	var order []string
	record := func(name string) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start"))
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		if a.Cfg.Name != "test-svc" {
			t.Errorf("configure saw cfg.Name %q", a.Cfg.Name)
		}
		order = append(order, "configure")
		return nil
	})
	app.OnReady(record("ready"))
	app.OnStop(record("stop"))

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := "start,configure,ready,task,stop"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
	if !comp.started || !comp.stopped {
		t.Errorf("component started=%v stopped=%v", comp.started, comp.stopped)
	}
}

func TestRunTaskErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(app *App[*testConfig])
		task    func(context.Context) error
		wantErr string
	}{
		{
			name:    "task error",
			task:    func(context.Context) error { return fmt.Errorf("task error") },
			wantErr: "task error",
		},
		{
			name:    "start hook",
			setup:   func(app *App[*testConfig]) { app.OnStart(func(context.Context) error { return boom }) },
			wantErr: "onStart hook failed",
		},
		{
			name: "configure",
			setup: func(app *App[*testConfig]) {
				app.OnConfigure(func(context.Context, *App[*testConfig]) error { return boom })
			},
			wantErr: "configuration failed",
		},
		{
			name:    "ready hook",
			setup:   func(app *App[*testConfig]) { app.OnReady(func(context.Context) error { return boom }) },
			wantErr: "onReady hook failed",
		},
		{
			name:    "stop hook",
			setup:   func(app *App[*testConfig]) { app.OnStop(func(context.Context) error { return boom }) },
			wantErr: "boom",
		},
		{
			name: "component start",
			setup: func(app *App[*testConfig]) {
				_ = app.RegisterComponent(&mockComponent{name: "db", startErr: boom})
			},
			wantErr: "initialization failed",
		},
		{
			name: "component stop",
			setup: func(app *App[*testConfig]) {
				c := healthy("db")
				c.stopErr = boom
				_ = app.RegisterComponent(c)
			},
			wantErr: "failed to stop db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			if tt.setup != nil {
				tt.setup(app)
			}
			task := tt.task
			if task == nil {
				task = func(context.Context) error { return nil }
			}
			err := app.RunTask(context.Background(), task)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("RunTask() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunTaskStopsStartedComponentsOnConfigureError(t *testing.T) {
	app := newTestApp(t)
	comp := healthy("store")
	_ = app.RegisterComponent(comp)
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return errors.New("no") })

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error")
	}
	if !comp.stopped {
		t.Error("started component was not stopped")
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunTask() error = %v, want context.Canceled", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := newTestApp(t)
	comp := healthy("server")
	_ = app.RegisterComponent(comp)

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !comp.stopped {
		t.Error("component was not stopped")
	}
}

func TestDisplaySummary(t *testing.T) {
	var buf bytes.Buffer
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "vlmscribe", Environment: "development"}}
	app, err := NewApp(cfg, WithLogger(logger.Nop()), WithSummaryWriter(&buf))
	if err != nil {
		t.Fatal(err)
	}
	_ = app.RegisterComponent(healthy("history"))
	_ = app.RegisterComponent(&mockComponent{name: "redis", health: component.Health{Name: "redis", Status: component.StatusUnhealthy, Message: "down"}})

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"vlmscribe dev started",
		"history [storage]: provider=memory",
		"redis: unhealthy (down)",
		"(1/2 healthy)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary("svc", "2.0.0")
	s.SetStartupDuration(1500 * time.Millisecond)
	s.Write(&buf, nil, []component.Route{{Method: "GET", Path: "/api/models", Handler: "api.ListModels"}}, nil)

	out := buf.String()
	for _, want := range []string{"svc 2.0.0 started in 1.50s", "Routes (1)", "/api/models → api.ListModels", "No components registered"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestHealthIcon(t *testing.T) {
	tests := map[component.HealthStatus]string{
		component.StatusHealthy:   "✅",
		component.StatusDegraded:  "⚠️",
		component.StatusUnhealthy: "❌",
		"other":                   "❓",
	}
	for status, want := range tests {
		if got := healthIcon(status); got != want {
			t.Errorf("healthIcon(%q) = %q, want %q", status, got, want)
		}
	}
}
