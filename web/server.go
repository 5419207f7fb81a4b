package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/husobee/vestigo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultShutdownTimeoutMs   = 500
	defaultReadHeaderTimeoutMs = 5000
	defaultReadTimeoutMs       = 15000
	defaultWriteTimeoutMs      = 30000
	defaultIdleTimeoutMs       = 60000
	defaultRequestTimeoutMs    = 20000
)

// frontMethods are mounted on the front router for every static path, so that the
// kernel, not the router, decides between 404 and 405.
var frontMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// routedByFront reports whether the front router may see a request. vestigo answers
// OPTIONS, TRACE, CONNECT and unknown methods itself, those go to the kernel directly.
// CORS preflight requests stay with vestigo when CORS is configured.
func (k *Kernel) routedByFront(requestObj *http.Request) bool {
	switch requestObj.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	case http.MethodOptions:
		return k.serverConfig.Cors.Enabled() && "" != requestObj.Header.Get("Access-Control-Request-Method")
	}

	return false
}

// Handler builds the server handler: a vestigo router with static routes mounted
// and the kernel as the fallback, the metrics endpoint when configured, and the
// request timeout around everything. The kernel must be booted.
func (k *Kernel) Handler() http.Handler {
	router := vestigo.NewRouter()

	mounted := make(map[string]bool)
	for _, r := range k.routes.AllFlattened() {
		if r.IsDynamic() || mounted[r.Path()] || strings.ContainsAny(r.Path(), ":*") {
			continue
		}
		mounted[r.Path()] = true

		for _, method := range frontMethods {
			router.Add(method, r.Path(), k.ServeHTTP)
		}
	}

	// Everything the front router does not know goes through the kernel matching
	vestigo.CustomNotFoundHandlerFunc(k.ServeHTTP)

	corsConfig := k.serverConfig.Cors
	if corsConfig.Enabled() {
		router.SetGlobalCors(&vestigo.CorsAccessControl{
			AllowOrigin:      corsConfig.AllowOrigin,
			AllowCredentials: corsConfig.AllowCredentials,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			MaxAge:           k.getDurationFromConfig(corsConfig.MaxAge, 0),
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
		})
	}

	mux := http.NewServeMux()
	if "" != k.serverConfig.MetricsPath {
		mux.Handle(k.serverConfig.MetricsPath, promhttp.HandlerFor(k.metricsRegistry, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", http.HandlerFunc(func(responseWriterObj http.ResponseWriter, requestObj *http.Request) {
		if !k.routedByFront(requestObj) {
			k.ServeHTTP(responseWriterObj, requestObj)

			return
		}

		router.ServeHTTP(responseWriterObj, requestObj)
	}))

	return http.TimeoutHandler(
		mux,
		k.getDurationFromConfig(k.serverConfig.RequestTimeout, defaultRequestTimeoutMs),
		http.StatusText(http.StatusServiceUnavailable),
	)
}

// Run boots the kernel and serves HTTP until SIGINT or SIGTERM.
func (k *Kernel) Run() error {
	if 0 >= k.serverConfig.HttpPort {
		return errors.New("failed to start application, http port to serve not configured")
	}

	if bootError := k.Boot(); nil != bootError {
		return fmt.Errorf("failed to start application: %w", bootError)
	}

	terminationErrors := make([]error, 0)

	k.httpServer.Handler = k.Handler()
	k.httpServer.Addr = fmt.Sprintf(":%d", k.serverConfig.HttpPort)

	// Graceful HTTP Server shutdown on signals setup
	httpShutdownChannel := k.setupGraceShutdown(&terminationErrors)

	k.logger.Info("http server started", "addr", k.httpServer.Addr)

	listenError := k.httpServer.ListenAndServe()
	if nil != listenError && !errors.Is(listenError, http.ErrServerClosed) {
		terminationErrors = append(terminationErrors, listenError)
	} else {
		<-httpShutdownChannel
	}

	k.Close(&terminationErrors)
	k.logger.Info("http server stopped")

	return errors.Join(terminationErrors...)
}

func (k *Kernel) setupGraceShutdown(terminationErrors *[]error) chan bool {
	shutdownTimeout := k.getDurationFromConfig(k.serverConfig.ShutdownTimeout, defaultShutdownTimeoutMs)

	signalsChannel := make(chan os.Signal, 1)
	httpShutdownChannel := make(chan bool, 1)

	signal.Notify(signalsChannel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(signalsChannel)

		<-signalsChannel

		shutdownContext, shutdownContextCancelFunc := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownContextCancelFunc()

		shutdownError := k.httpServer.Shutdown(shutdownContext)
		if nil != shutdownError {
			if errors.Is(shutdownError, context.DeadlineExceeded) {
				*terminationErrors = append(
					*terminationErrors,
					fmt.Errorf("graceful shutdown timeout of %s expired", shutdownTimeout),
				)
			} else {
				*terminationErrors = append(*terminationErrors, shutdownError)
			}
		}

		httpShutdownChannel <- true
	}()

	return httpShutdownChannel
}
