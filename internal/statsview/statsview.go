// Package statsview runs a local HTTP server offering runtime statistics of
// the emulator process. Graphs are served at
//
//	localhost:12600/debug/statsview
//
// and the standard pprof handlers at
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Address the server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch starts the server in a new goroutine.
func Launch(logger *log.Logger) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server available", log.String("url", "http://"+Address+url))
}
