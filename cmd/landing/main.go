// Command landing serves the ATGS landing page.
//
//	landing [flags]                 serve in the foreground
//	landing service <action> [flags] install|uninstall|start|stop|restart|run
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atgs/landing/app"
	"github.com/atgs/landing/internal/app/bootstrap"
	"github.com/atgs/landing/pantry/version"
	"github.com/atgs/landing/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "service" {
		var action string
		var rest []string
		if len(os.Args) > 2 {
			action, rest = os.Args[2], os.Args[3:]
		}
		err := service.Main(service.Config{
			Name:        "atgs-landing",
			DisplayName: "ATGS Landing Page",
			Description: "Serves the ATGS marketing site (" + version.String() + ")",
			Arguments:   rest,
		}, bootstrap.Hooks, action)
		exitOn(err)
		return
	}

	exitOn(app.Run(context.Background(), bootstrap.Hooks))
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "landing:", err)
		os.Exit(1)
	}
}
