package handler

import (
	"net/http"
	"prestige/config"
	"prestige/di"
	"prestige/shared/logger"
	"sync"

	_ "prestige/docs"
)

var (
	app     http.Handler
	appOnce sync.Once
)

// Handler is the serverless entrypoint. Warm invocations reuse the wired routes.
func Handler(w http.ResponseWriter, r *http.Request) {
	appOnce.Do(func() {
		logger.InitLogger()
		logger.Configure(config.Get())

		app = di.InitializeService().Handler()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
