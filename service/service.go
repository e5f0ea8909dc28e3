// Package service runs the site under the host's service manager
// (systemd, launchd, Windows SCM) through github.com/kardianos/service.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/atgs/landing/app"
	"github.com/kardianos/service"
)

// Actions accepted by Main besides "run".
var Actions = service.ControlAction[:]

// Program adapts app.Run to service.Interface.
type Program[C any, D any] struct {
	Hooks app.Hooks[C, D]

	cancel context.CancelFunc
	done   chan error
}

// Start launches app.Run in the background; the manager expects Start to
// return promptly.
func (p *Program[C, D]) Start(service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() { p.done <- app.Run(ctx, p.Hooks) }()
	return nil
}

// Stop cancels Run and waits for the graceful shutdown to finish.
func (p *Program[C, D]) Stop(service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	return <-p.done
}

// Config describes how the service is registered. Arguments are passed to
// the binary when the manager starts it.
type Config struct {
	Name        string
	DisplayName string
	Description string
	Arguments   []string
}

// ErrUsage is returned for an unknown action.
var ErrUsage = errors.New("usage: service install|uninstall|start|stop|restart|run")

// Main handles "<binary> service <action>". "run" blocks under the service
// manager (or interactively); the others control the installed service.
func Main[C any, D any](cfg Config, hooks app.Hooks[C, D], action string) error {
	if action != "run" && !slices.Contains(Actions, action) {
		return ErrUsage
	}
	prg := &Program[C, D]{Hooks: hooks}
	svc, err := service.New(prg, &service.Config{
		Name:        cfg.Name,
		DisplayName: cfg.DisplayName,
		Description: cfg.Description,
		Arguments:   append([]string{"service", "run"}, cfg.Arguments...),
	})
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}

	if action == "run" {
		return svc.Run()
	}
	if err := service.Control(svc, action); err != nil {
		return fmt.Errorf("service %s: %w", action, err)
	}
	return nil
}
