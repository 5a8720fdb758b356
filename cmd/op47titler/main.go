// Command op47titler runs the OP-47 WST subtitle titling service:
// an HTTP control surface that loads WebVTT files, segments their
// cues, and drives a playback scheduler dispatching encoded teletext
// packets to a downstream video-mixer server.
package main

import (
	"net/http"

	"github.com/broadcastlabs/op47titler/internal/web"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		web.Dependencies(),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
