package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/bassbeaver/gdispatch/collection"
	commonConfig "github.com/bassbeaver/gdispatch/config"
	"github.com/bassbeaver/gdispatch/container"
	"github.com/bassbeaver/gdispatch/entity"
	kernelError "github.com/bassbeaver/gdispatch/error"
	commonEventBus "github.com/bassbeaver/gdispatch/event_bus"
	commonEvent "github.com/bassbeaver/gdispatch/event_bus/event"
	"github.com/bassbeaver/gdispatch/helper"
	"github.com/bassbeaver/gdispatch/logger"
	"github.com/bassbeaver/gdispatch/parser"
	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/processor"
	"github.com/bassbeaver/gdispatch/route"
	"github.com/bassbeaver/gdispatch/routecache"
	webConfig "github.com/bassbeaver/gdispatch/web/config"
	webKernelError "github.com/bassbeaver/gdispatch/web/error"
	"github.com/bassbeaver/gdispatch/web/middleware"
	"github.com/bassbeaver/gdispatch/web/response"
)

const (
	KernelName = "web"

	phaseDispatch = "dispatch"
)

// Controller is the dispatch target of a route.
type Controller func(*http.Request, *route.Arguments) response.Response

type requestStateKey struct{}

type requestState struct {
	route   *route.Route
	started time.Time
	caught  bool
	exited  bool
}

type Kernel struct {
	config              *viper.Viper
	locator             *container.Locator
	logger              *slog.Logger
	parser              *parser.Parser
	definitions         []route.Definition
	routes              *collection.Collection
	controllers         map[string]Controller
	namedMiddleware     map[string]interface{}
	globalMiddleware    map[string][]interface{}
	chains              *phaseChains
	routeChains         map[string]*phaseChains
	entities            route.EntityResolver
	closers             []io.Closer
	cache               routecache.Cache
	eventsRegistry      *commonEventBus.EventsRegistry
	applicationEventBus *commonEventBus.EventBus
	metricsRegistry     *prometheus.Registry
	serverConfig        webConfig.ServerConfig
	httpServer          *http.Server
	debug               bool
	booted              bool
}

func (k *Kernel) GetLocator() *container.Locator {
	return k.locator
}

func (k *Kernel) GetLogger() *slog.Logger {
	return k.logger
}

func (k *Kernel) GetEventsRegistry() *commonEventBus.EventsRegistry {
	return k.eventsRegistry
}

func (k *Kernel) GetMetricsRegistry() *prometheus.Registry {
	return k.metricsRegistry
}

// GetRouteCache returns the configured route cache, nil when there is none.
func (k *Kernel) GetRouteCache() routecache.Cache {
	return k.cache
}

func (k *Kernel) GetHttpServer() *http.Server {
	return k.httpServer
}

// Routes returns the route collection, nil before Boot.
func (k *Kernel) Routes() *collection.Collection {
	return k.routes
}

func (k *Kernel) SetDebug(debugMode bool) *Kernel {
	k.debug = debugMode

	return k
}

func (k *Kernel) SetEntityResolver(resolver route.EntityResolver) *Kernel {
	k.entities = resolver

	return k
}

func (k *Kernel) SetRouteCache(cache routecache.Cache) *Kernel {
	k.cache = cache

	return k
}

func (k *Kernel) RegisterRoute(definition route.Definition) *Kernel {
	k.definitions = append(k.definitions, definition)

	return k
}

// RegisterController binds a controller to the name routes use in Dispatch.Controller.
func (k *Kernel) RegisterController(name string, controller Controller) *Kernel {
	k.controllers[name] = controller

	return k
}

// RegisterMiddleware names middleware so that routes and configuration can refer to it.
func (k *Kernel) RegisterMiddleware(alias string, middlewareObj interface{}) *Kernel {
	k.namedMiddleware[alias] = middlewareObj

	return k
}

// Use appends global middleware to a phase. Each item is a middleware of the phase
// type, a registered alias or an "alias:Method" container reference.
func (k *Kernel) Use(phase string, middlewareItems ...interface{}) *Kernel {
	k.globalMiddleware[phase] = append(k.globalMiddleware[phase], middlewareItems...)

	return k
}

func (k *Kernel) RegisterListener(eventObj commonEvent.Event, listenerFunc interface{}, priority int) error {
	return k.applicationEventBus.AppendListener(eventObj, listenerFunc, priority)
}

func (k *Kernel) RegisterService(alias string, factoryMethod interface{}, enableCaching bool) error {
	return k.locator.RegisterConfigured(k.config, alias, factoryMethod, enableCaching)
}

// URL renders the path of a named route.
func (k *Kernel) URL(name string, params map[string]string) (string, error) {
	if nil == k.routes {
		return "", errors.New("kernel is not booted")
	}

	return k.routes.URL(name, params)
}

// Boot reads the parts of configuration that need services, builds the routes and
// the middleware chains. Calling it again does nothing.
func (k *Kernel) Boot() error {
	if k.booted {
		return nil
	}

	if listenersError := k.readListenersConfig(); nil != listenersError {
		return listenersError
	}
	if entityError := k.readEntityConfig(); nil != entityError {
		return entityError
	}

	if cyclesError := k.locator.CheckCycles(); nil != cyclesError {
		return fmt.Errorf("errors in DI container: %w", cyclesError)
	}

	routes, routesError := k.loadRoutes()
	if nil != routesError {
		return routesError
	}
	k.routes = routes

	if controllersError := k.resolveControllers(); nil != controllersError {
		return controllersError
	}
	if chainsError := k.buildChains(); nil != chainsError {
		return chainsError
	}

	k.booted = true
	k.applicationEventBus.Dispatch(commonEvent.NewBooted(k, KernelName, k.routes.Len()))
	k.logger.Info("web kernel booted", slog.Int("routes", k.routes.Len()), slog.Bool("debug", k.debug))

	return nil
}

// CompileRoutes processes every registered definition into a new collection.
func (k *Kernel) CompileRoutes() (*collection.Collection, error) {
	options := []processor.Option{processor.WithParser(k.parser)}
	if schema, isSchema := k.entities.(processor.EntitySchema); isSchema {
		options = append(options, processor.WithEntitySchema(schema))
	}
	routeProcessor := processor.NewProcessor(options...)

	routes := collection.NewCollection()
	for _, definition := range k.definitions {
		processed, processError := routeProcessor.Process(route.New(definition))
		if nil != processError {
			return nil, fmt.Errorf("route %s: %w", definition.Name, processError)
		}
		if addError := routes.Add(processed); nil != addError {
			return nil, addError
		}
	}

	return routes, nil
}

func (k *Kernel) loadRoutes() (*collection.Collection, error) {
	if nil != k.cache {
		snapshot, loadError := routecache.LoadFor(context.Background(), k.cache, KernelName)
		switch {
		case nil == loadError:
			routes, rebuildError := snapshot.Collection()
			if nil == rebuildError {
				k.logger.Debug("routes loaded from cache", slog.Int("routes", routes.Len()))

				return routes, nil
			}
			k.logger.Warn("route cache is unusable, compiling routes", logger.Error(rebuildError))
		case !errors.Is(loadError, routecache.ErrCacheMiss):
			k.logger.Warn("route cache is unusable, compiling routes", logger.Error(loadError))
		}
	}

	return k.CompileRoutes()
}

func (k *Kernel) resolveControllers() error {
	for _, r := range k.routes.AllFlattened() {
		reference := r.Dispatch().Controller
		if _, registered := k.controllers[reference]; registered {
			continue
		}
		if "" == reference || !strings.Contains(reference, ":") {
			return fmt.Errorf("route %s: controller %q is not registered", r.Name(), reference)
		}

		controller, methodError := container.MethodAs[Controller](k.locator, reference)
		if nil != methodError {
			return fmt.Errorf("route %s: %w", r.Name(), methodError)
		}
		k.controllers[reference] = controller
	}

	return nil
}

// Handle runs a request through every phase and returns the response to send.
func (k *Kernel) Handle(requestObj *http.Request) (responseObj response.Response) {
	state := k.requestState(requestObj)

	defer func() {
		// Recover should be called directly by a deferred function. https://golang.org/ref/spec#Handling_panics
		recoveredError := recover()
		if nil != recoveredError {
			responseObj = echoRequestID(requestObj, k.performRecover(recoveredError, debug.Stack(), requestObj, state))
		}
	}()

	if !k.booted {
		panic(errors.New("web kernel is not booted"))
	}

	receivedContext := &middleware.ReceivedContext{RequestHolder: middleware.RequestHolder{Request: requestObj}}
	responseObj = k.chains.received.Handle(
		receivedContext,
		pipeline.HandlerFunc[*middleware.ReceivedContext, response.Response](func(ctx *middleware.ReceivedContext) response.Response {
			return k.runMatching(ctx.Request, state)
		}),
	)
	requireResponse(responseObj, middleware.PhaseRequestReceived)

	return
}

func (k *Kernel) runMatching(requestObj *http.Request, state *requestState) response.Response {
	matchedRoute, params, found := k.routes.Match(requestObj.URL.Path, requestObj.Method)
	if !found && http.MethodHead == requestObj.Method {
		matchedRoute, params, found = k.routes.Match(requestObj.URL.Path, http.MethodGet)
	}
	if !found {
		return k.runNotMatched(requestObj)
	}
	state.route = matchedRoute

	matchedContext := &middleware.MatchedContext{
		RequestHolder: middleware.RequestHolder{Request: requestObj},
		Route:         matchedRoute,
		Params:        params,
	}
	responseObj := k.chainsFor(matchedRoute).matched.Handle(
		matchedContext,
		pipeline.HandlerFunc[*middleware.MatchedContext, response.Response](k.runDispatch),
	)
	requireResponse(responseObj, middleware.PhaseRouteMatched)

	return responseObj
}

func (k *Kernel) runDispatch(ctx *middleware.MatchedContext) response.Response {
	arguments, bindError := ctx.Route.Bind(ctx.Context(), ctx.Params, k.entities, k.locator)
	if nil != bindError {
		var castError *route.CastError
		switch {
		case errors.Is(bindError, route.ErrEntityNotFound):
			panic(webKernelError.NewNotFoundHttpError())
		case errors.As(bindError, &castError):
			panic(webKernelError.NewBadRequestHttpError(bindError))
		}
		panic(bindError)
	}

	controller := k.controllers[ctx.Route.Dispatch().Controller]
	responseObj := controller(ctx.Request, arguments)
	requireResponse(responseObj, phaseDispatch)

	dispatchedContext := &middleware.DispatchedContext{
		RequestHolder: ctx.RequestHolder,
		Route:         ctx.Route,
		Response:      responseObj,
	}
	responseObj = k.chainsFor(ctx.Route).dispatched.Handle(
		dispatchedContext,
		pipeline.HandlerFunc[*middleware.DispatchedContext, response.Response](func(ctx *middleware.DispatchedContext) response.Response {
			return ctx.Response
		}),
	)
	requireResponse(responseObj, middleware.PhaseRouteDispatched)

	return responseObj
}

func (k *Kernel) runNotMatched(requestObj *http.Request) response.Response {
	allowed := k.routes.Methods(requestObj.URL.Path)

	var httpError webKernelError.HttpError = webKernelError.NewNotFoundHttpError()
	if 0 < len(allowed) {
		httpError = webKernelError.NewMethodNotAllowedHttpError(allowed)
	}

	notMatchedContext := &middleware.NotMatchedContext{
		RequestHolder: middleware.RequestHolder{Request: requestObj},
		Allowed:       allowed,
		Response:      response.NewErrorResponse(httpError),
	}
	responseObj := k.chains.notMatched.Handle(
		notMatchedContext,
		pipeline.HandlerFunc[*middleware.NotMatchedContext, response.Response](func(ctx *middleware.NotMatchedContext) response.Response {
			return ctx.Response
		}),
	)
	requireResponse(responseObj, middleware.PhaseRouteNotMatched)

	return responseObj
}

// performRecover turns a failure into a response through the ThrowableCaught phase.
// In debug mode the recovered value is raised again instead.
func (k *Kernel) performRecover(
	recoveredError interface{},
	trace []byte,
	requestObj *http.Request,
	state *requestState,
) (responseObj response.Response) {
	runtimeError := kernelError.NewRuntimeError(recoveredError, trace)

	routeName := ""
	if nil != state.route {
		routeName = state.route.Name()
	}
	k.logger.ErrorContext(
		requestObj.Context(),
		"request failed",
		logger.Error(runtimeError.Err),
		logger.Route(routeName),
		logger.RequestID(middleware.RequestIDFrom(requestObj.Context())),
		slog.String("path", requestObj.URL.Path),
	)
	k.logger.DebugContext(requestObj.Context(), "request failure trace", logger.Trace(trace))

	if k.debug {
		panic(recoveredError)
	}

	if state.caught || nil == k.chains {
		return newBareInternalServerError()
	}
	state.caught = true

	defer func() {
		// Recover panic inside of panic recovery
		recoveryRecoveredError := recover()
		if nil != recoveryRecoveredError {
			k.logger.ErrorContext(
				requestObj.Context(),
				"middleware failed while handling a failure",
				logger.Phase(middleware.PhaseThrowableCaught),
				slog.Any("error", recoveryRecoveredError),
			)
			responseObj = newBareInternalServerError()
		}
	}()

	throwableContext := &middleware.ThrowableContext{
		RequestHolder: middleware.RequestHolder{Request: requestObj},
		Route:         state.route,
		Error:         runtimeError,
		Trace:         runtimeError.Trace,
		Response:      defaultErrorResponse(runtimeError),
	}
	responseObj = k.chainsFor(state.route).throwable.Handle(
		throwableContext,
		pipeline.HandlerFunc[*middleware.ThrowableContext, response.Response](func(ctx *middleware.ThrowableContext) response.Response {
			return ctx.Response
		}),
	)
	if nil == responseObj {
		responseObj = newBareInternalServerError()
	}

	return responseObj
}

// echoRequestID copies the request ID onto a response built on the failure path,
// RequestID middleware never sees those responses.
func echoRequestID(requestObj *http.Request, responseObj response.Response) response.Response {
	if id := middleware.RequestIDFrom(requestObj.Context()); "" != id && nil != responseObj {
		responseObj.GetHeaders().Set(middleware.RequestIDHeader, id)
	}

	return responseObj
}

// Send writes a response. The body is rendered before headers are written, so a
// failing body still turns into a proper error response.
func (k *Kernel) Send(responseWriterObj http.ResponseWriter, requestObj *http.Request, responseObj response.Response) {
	var responseBody []byte
	var responseStatus int
	var responseHeader http.Header

	defer func() {
		// Recover should be called directly by a deferred function. https://golang.org/ref/spec#Handling_panics
		recoveredError := recover()
		if nil != recoveredError {
			func() {
				// Recover panic inside of panic recovery
				defer func() {
					recoveryRecoveredError := recover()
					if nil != recoveryRecoveredError {
						if k.debug {
							panic(recoveryRecoveredError)
						}
						responseBody = []byte(http.StatusText(http.StatusInternalServerError))
						responseStatus = http.StatusInternalServerError
						responseHeader = make(http.Header)
					}
				}()

				recoverResponseObj := echoRequestID(
					requestObj,
					k.performRecover(recoveredError, debug.Stack(), requestObj, k.requestState(requestObj)),
				)

				responseBody = recoverResponseObj.GetBodyBytes().Bytes()
				responseStatus = recoverResponseObj.GetHttpStatus()
				responseHeader = recoverResponseObj.GetHeaders()
			}()
		}

		for headerName, headerValues := range responseHeader {
			for _, value := range headerValues {
				responseWriterObj.Header().Add(headerName, value)
			}
		}
		responseWriterObj.WriteHeader(responseStatus)

		if http.MethodHead != requestObj.Method {
			_, _ = responseWriterObj.Write(responseBody)
		}
	}()

	if nil == responseObj {
		responseObj = newBareInternalServerError()
	}

	responseBody = responseObj.GetBodyBytes().Bytes()
	responseStatus = responseObj.GetHttpStatus()
	responseHeader = responseObj.GetHeaders()
}

// Terminate runs the Exited phase. It runs once per request, later calls do nothing.
func (k *Kernel) Terminate(requestObj *http.Request, responseObj response.Response) {
	state := k.requestState(requestObj)
	if state.exited {
		return
	}
	state.exited = true

	defer func() {
		// Recover should be called directly by a deferred function. https://golang.org/ref/spec#Handling_panics
		recoveredError := recover()
		if nil != recoveredError {
			k.logger.ErrorContext(requestObj.Context(), "exited phase failed", slog.Any("error", recoveredError))
		}
	}()

	if nil == k.chains {
		return
	}

	exitedContext := &middleware.ExitedContext{
		RequestHolder: middleware.RequestHolder{Request: requestObj},
		Route:         state.route,
		Response:      responseObj,
		Started:       state.started,
	}
	k.chainsFor(state.route).exited.Handle(
		exitedContext,
		pipeline.HandlerFunc[*middleware.ExitedContext, response.Response](func(ctx *middleware.ExitedContext) response.Response {
			return ctx.Response
		}),
	)

	status := 0
	if nil != responseObj {
		status = responseObj.GetHttpStatus()
	}
	k.logger.DebugContext(
		requestObj.Context(),
		"request handled",
		slog.String("method", requestObj.Method),
		slog.String("path", requestObj.URL.Path),
		logger.Status(status),
		logger.Elapsed(state.started),
	)
}

func (k *Kernel) ServeHTTP(responseWriterObj http.ResponseWriter, requestObj *http.Request) {
	var responseObj response.Response
	defer func() {
		k.Terminate(requestObj, responseObj)
	}()

	responseObj = k.Handle(requestObj)
	k.Send(responseWriterObj, requestObj, responseObj)
}

// Close dispatches the Terminated event and releases what the kernel opened.
func (k *Kernel) Close(terminationErrors *[]error) {
	k.applicationEventBus.Dispatch(commonEvent.NewTerminated(k, KernelName, terminationErrors))

	for _, closer := range k.closers {
		if closeError := closer.Close(); nil != closeError {
			*terminationErrors = append(*terminationErrors, closeError)
		}
	}
	k.closers = nil
}

func (k *Kernel) requestState(requestObj *http.Request) *requestState {
	if state, exists := requestObj.Context().Value(requestStateKey{}).(*requestState); exists {
		return state
	}

	state := &requestState{started: time.Now()}
	RequestContextAppend(requestObj, requestStateKey{}, state)

	return state
}

func (k *Kernel) readRoutingConfig() error {
	if nil == k.config || !k.config.IsSet("web.routing") {
		return nil
	}

	routingConfig := webConfig.RoutingConfig{}
	if routingConfigError := k.config.UnmarshalKey("web.routing", &routingConfig); nil != routingConfigError {
		return errors.New("failed to read routing config: " + routingConfigError.Error())
	}

	for name, pattern := range routingConfig.Patterns {
		k.parser = k.parser.WithPattern(name, pattern)
	}

	for _, phase := range middleware.Phases {
		for _, reference := range routingConfig.Middleware[phase] {
			k.Use(phase, reference)
		}
	}

	if routingConfig.Cache.Enabled() {
		cache, cacheError := routecache.New(routingConfig.Cache, KernelName)
		if nil != cacheError {
			return cacheError
		}
		k.cache = cache
	}

	for routeName := range k.config.GetStringMap("web.routing.routes") {
		routeConfig := &commonConfig.RouteConfig{}
		routeConfigErr := k.config.UnmarshalKey("web.routing.routes."+routeName, routeConfig)
		if nil != routeConfigErr {
			return errors.New("failed to read routing config: " + routeConfigErr.Error())
		}

		k.RegisterRoute(routeConfig.Definition(routeName))
	}

	return nil
}

func (k *Kernel) readListenersConfig() error {
	if nil == k.config || !k.config.IsSet("event_listeners") {
		return nil
	}

	listenersConfig := make([]commonConfig.EventListenerConfig, 0)
	if listenersConfigErr := k.config.UnmarshalKey("event_listeners", &listenersConfig); nil != listenersConfigErr {
		return errors.New("failed to read application level event listeners config, error: " + listenersConfigErr.Error())
	}

	for _, listenerConfig := range listenersConfig {
		eventObj, eventRegistryError := k.eventsRegistry.GetEventByName(listenerConfig.EventName)
		if nil != eventRegistryError {
			return fmt.Errorf("failed to register event listener %s: %w", listenerConfig.Listener, eventRegistryError)
		}

		listenerMethod, methodError := k.locator.Method(listenerConfig.Listener)
		if nil != methodError {
			return fmt.Errorf("failed to register event listener %s: %w", listenerConfig.Listener, methodError)
		}

		listenerError := k.RegisterListener(eventObj, listenerMethod.Interface(), listenerConfig.Priority)
		if nil != listenerError {
			return fmt.Errorf("failed to register event listener %s: %w", listenerConfig.Listener, listenerError)
		}
	}

	return nil
}

func (k *Kernel) readEntityConfig() error {
	if nil != k.entities || nil == k.config || !k.config.IsSet("entity") {
		return nil
	}

	entityConfig := commonConfig.EntityConfig{}
	if entityConfigError := k.config.UnmarshalKey("entity", &entityConfig); nil != entityConfigError {
		return errors.New("failed to read entity config: " + entityConfigError.Error())
	}
	if !entityConfig.Enabled() {
		return nil
	}

	resolver, openError := entity.Open(entityConfig)
	if nil != openError {
		return openError
	}
	k.entities = resolver
	k.closers = append(k.closers, resolver)

	return nil
}

func (k *Kernel) getDurationFromConfig(valueInMs int, defaultInMs int) time.Duration {
	if 0 >= valueInMs {
		valueInMs = defaultInMs
	}

	return time.Millisecond * time.Duration(valueInMs)
}

//--------------------

// NewKernel reads configuration files from configPath.
func NewKernel(configPath string) (*Kernel, error) {
	configObj, configBuildError := helper.BuildConfigFromDir(configPath)
	if nil != configBuildError {
		return nil, configBuildError
	}

	loggingConfig := commonConfig.LoggingConfig{}
	if loggingConfigError := configObj.UnmarshalKey("logging", &loggingConfig); nil != loggingConfigError {
		return nil, errors.New("failed to read logging config: " + loggingConfigError.Error())
	}

	return NewKernelWithConfig(configObj, container.NewLocator(), logger.New(loggingConfig))
}

// NewKernelWithConfig builds a kernel around an already read configuration, which may be nil.
func NewKernelWithConfig(configObj *viper.Viper, locator *container.Locator, log *slog.Logger) (*Kernel, error) {
	if nil == log {
		log = logger.Nope()
	}
	if nil == locator {
		locator = container.NewLocator()
	}

	kernel := &Kernel{
		config:              configObj,
		locator:             locator,
		logger:              log.With(slog.String("kernel", KernelName)),
		parser:              parser.NewParser(),
		definitions:         make([]route.Definition, 0),
		controllers:         make(map[string]Controller),
		namedMiddleware:     make(map[string]interface{}),
		globalMiddleware:    make(map[string][]interface{}),
		routeChains:         make(map[string]*phaseChains),
		closers:             make([]io.Closer, 0),
		eventsRegistry:      commonEventBus.NewDefaultRegistry(),
		applicationEventBus: commonEventBus.NewEventBus(),
		metricsRegistry:     prometheus.NewRegistry(),
		httpServer:          &http.Server{},
	}

	if nil != configObj {
		kernel.debug = configObj.GetBool("debug")

		if configObj.IsSet("parameters") {
			locator.SetParameters(configObj.GetStringMapString("parameters"))
		}

		if configObj.IsSet("web") {
			if serverConfigError := configObj.UnmarshalKey("web", &kernel.serverConfig); nil != serverConfigError {
				return nil, errors.New("failed to read web server config: " + serverConfigError.Error())
			}
		}

		if routingConfigError := kernel.readRoutingConfig(); nil != routingConfigError {
			return nil, routingConfigError
		}
	}

	if "" != kernel.serverConfig.MetricsPath {
		metrics, metricsError := middleware.NewMetrics(kernel.metricsRegistry)
		if nil != metricsError {
			return nil, metricsError
		}
		kernel.Use(middleware.PhaseExited, metrics)
	}

	kernel.httpServer.ReadHeaderTimeout = kernel.getDurationFromConfig(kernel.serverConfig.ServerReadHeaderTimeout, defaultReadHeaderTimeoutMs)
	kernel.httpServer.ReadTimeout = kernel.getDurationFromConfig(kernel.serverConfig.ServerReadTimeout, defaultReadTimeoutMs)
	kernel.httpServer.WriteTimeout = kernel.getDurationFromConfig(kernel.serverConfig.ServerWriteTimeout, defaultWriteTimeoutMs)
	kernel.httpServer.IdleTimeout = kernel.getDurationFromConfig(kernel.serverConfig.ServerIdleTimeout, defaultIdleTimeoutMs)

	return kernel, nil
}

//--------------------

func RequestContextAppend(requestObj *http.Request, key, val interface{}) {
	newContext := context.WithValue(requestObj.Context(), key, val)
	*requestObj = *requestObj.WithContext(newContext)
}

func requireResponse(responseObj response.Response, phase string) {
	if nil == responseObj {
		panic(kernelError.NewNoResponseError(phase))
	}
}

func defaultErrorResponse(err error) response.Response {
	var httpError webKernelError.HttpError
	if errors.As(err, &httpError) {
		return response.NewErrorResponse(httpError)
	}

	return response.NewErrorResponse(webKernelError.NewInternalServerHttpError(err))
}

func newBareInternalServerError() response.Response {
	return response.NewTextResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
