package pprof

import (
	"net/http"
	_ "net/http/pprof"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Start 在独立端口暴露 pprof, addr 为空时不启动
func Start(addr string) bool {
	if addr == "" {
		return false
	}
	runtime.SetMutexProfileFraction(1)
	runtime.SetBlockProfileRate(1)

	go func() {
		logrus.WithField("addr", addr).Info("pprof listening")
		if err := http.ListenAndServe(addr, nil); err != nil {
			logrus.WithError(err).Error("pprof server stopped")
		}
	}()
	return true
}
