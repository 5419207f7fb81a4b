package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	cliConfig "github.com/bassbeaver/gdispatch/cli/config"
	"github.com/bassbeaver/gdispatch/cli/console"
	cliKernelError "github.com/bassbeaver/gdispatch/cli/error"
	"github.com/bassbeaver/gdispatch/cli/middleware"
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
)

const (
	KernelName = "cli"

	phaseDispatch = "dispatch"
)

type invocationStateKey struct{}

type invocationState struct {
	command *route.Route
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
	help                map[string]string
	namedMiddleware     map[string]interface{}
	globalMiddleware    map[string][]interface{}
	chains              *phaseChains
	commandChains       map[string]*phaseChains
	entities            route.EntityResolver
	closers             []io.Closer
	cache               routecache.Cache
	eventsRegistry      *commonEventBus.EventsRegistry
	applicationEventBus *commonEventBus.EventBus
	stdout              io.Writer
	stderr              io.Writer
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

// Routes returns the registered commands, nil before Boot.
func (k *Kernel) GetRouteCache() routecache.Cache {
	return k.cache
}

func (k *Kernel) Routes() *collection.Collection {
	return k.routes
}

// Help returns the help text of a command.
func (k *Kernel) Help(name string) string {
	return k.help[name]
}

func (k *Kernel) SetDebug(debugMode bool) *Kernel {
	k.debug = debugMode

	return k
}

func (k *Kernel) SetOutput(stdout, stderr io.Writer) *Kernel {
	k.stdout = stdout
	k.stderr = stderr

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

func (k *Kernel) RegisterCommand(command *Command) *Kernel {
	definition := command.definition()

	k.definitions = append(k.definitions, definition)
	k.controllers[definition.Dispatch.Controller] = command.Controller
	k.help[definition.Name] = command.Help

	return k
}

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

// Boot builds the commands and the middleware chains. Calling it again does nothing.
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
	k.logger.Debug("cli kernel booted", slog.Int("commands", k.routes.Len()))

	return nil
}

// CompileRoutes processes every registered command into a new collection.
func (k *Kernel) CompileRoutes() (*collection.Collection, error) {
	options := []processor.Option{processor.WithParser(k.parser), processor.ForCommands()}
	if schema, isSchema := k.entities.(processor.EntitySchema); isSchema {
		options = append(options, processor.WithEntitySchema(schema))
	}
	commandProcessor := processor.NewProcessor(options...)

	routes := collection.NewCollection()
	for _, definition := range k.definitions {
		processed, processError := commandProcessor.Process(route.New(definition))
		if nil != processError {
			return nil, fmt.Errorf("command %s: %w", definition.Name, processError)
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
				return routes, nil
			}
			k.logger.Warn("command cache is unusable, compiling commands", logger.Error(rebuildError))
		case !errors.Is(loadError, routecache.ErrCacheMiss):
			k.logger.Warn("command cache is unusable, compiling commands", logger.Error(loadError))
		}
	}

	return k.CompileRoutes()
}

func (k *Kernel) resolveControllers() error {
	for _, command := range k.routes.AllFlattened() {
		reference := command.Dispatch().Controller
		if controller, registered := k.controllers[reference]; registered && nil != controller {
			continue
		}
		if !strings.Contains(reference, ":") || !k.locator.Has(strings.SplitN(reference, ":", 2)[0]) {
			return fmt.Errorf("command %s: controller %q is not registered", command.Name(), reference)
		}

		controller, methodError := container.MethodAs[Controller](k.locator, reference)
		if nil != methodError {
			return fmt.Errorf("command %s: %w", command.Name(), methodError)
		}
		k.controllers[reference] = controller
	}

	return nil
}

// Run boots the kernel, handles one command line and returns the exit code.
func (k *Kernel) Run(args []string) console.ExitCode {
	if bootError := k.Boot(); nil != bootError {
		k.logger.Error("failed to start application", logger.Error(bootError))
		k.Send(console.NewErrorOutput(cliKernelError.NewRuntimeError("failed to start application", bootError)))

		return console.ExitRuntime
	}

	terminationErrors := make([]error, 0)
	defer k.Close(&terminationErrors)

	input := console.ParseInput(args)

	var output *console.Output
	defer func() {
		k.Terminate(input, output)
	}()

	output = k.Handle(input)
	k.Send(output)

	return output.ExitCode()
}

// Handle runs an input through every phase and returns the output to send.
func (k *Kernel) Handle(input *console.Input) (output *console.Output) {
	state := k.invocationState(input)

	defer func() {
		// Recover should be called directly by a deferred function. https://golang.org/ref/spec#Handling_panics
		recoveredError := recover()
		if nil != recoveredError {
			output = k.performRecover(recoveredError, debug.Stack(), input, state)
		}
	}()

	if !k.booted {
		panic(errors.New("cli kernel is not booted"))
	}

	output = k.chains.received.Handle(
		&middleware.ReceivedContext{Input: input},
		pipeline.HandlerFunc[*middleware.ReceivedContext, *console.Output](func(ctx *middleware.ReceivedContext) *console.Output {
			return k.runMatching(ctx.Input, state)
		}),
	)
	requireOutput(output, middleware.PhaseInputReceived)

	return
}

func (k *Kernel) runMatching(input *console.Input, state *invocationState) *console.Output {
	if "" == input.Name {
		return k.runNotMatched(input)
	}

	command, params, found := k.routes.Match(input.Name, collection.AnyMethod)
	if !found {
		return k.runNotMatched(input)
	}
	state.command = command

	output := k.chainsFor(command).matched.Handle(
		&middleware.MatchedContext{Input: input, Command: command, Params: params},
		pipeline.HandlerFunc[*middleware.MatchedContext, *console.Output](k.runDispatch),
	)
	requireOutput(output, middleware.PhaseCommandMatched)

	return output
}

func (k *Kernel) runDispatch(ctx *middleware.MatchedContext) *console.Output {
	arguments, bindError := ctx.Command.Bind(ctx.Input.Context(), ctx.Params, k.entities, k.locator)
	if nil != bindError {
		var castError *route.CastError
		if errors.As(bindError, &castError) {
			panic(cliKernelError.NewInvalidArgumentsError(bindError))
		}
		panic(bindError)
	}

	output := k.controllers[ctx.Command.Dispatch().Controller](ctx.Input, arguments)
	requireOutput(output, phaseDispatch)

	output = k.chainsFor(ctx.Command).dispatched.Handle(
		&middleware.DispatchedContext{Input: ctx.Input, Command: ctx.Command, Output: output},
		pipeline.HandlerFunc[*middleware.DispatchedContext, *console.Output](func(ctx *middleware.DispatchedContext) *console.Output {
			return ctx.Output
		}),
	)
	requireOutput(output, middleware.PhaseCommandDispatched)

	return output
}

func (k *Kernel) runNotMatched(input *console.Input) *console.Output {
	suggestions := k.suggest(input.Name)

	seed := console.NewErrorOutput(cliKernelError.NewCommandNotFoundError(input.Name))
	if 0 < len(suggestions) {
		seed = seed.WriteError("Did you mean one of these? " + strings.Join(suggestions, ", "))
	}

	output := k.chains.notMatched.Handle(
		&middleware.NotMatchedContext{Input: input, Suggestions: suggestions, Output: seed},
		pipeline.HandlerFunc[*middleware.NotMatchedContext, *console.Output](func(ctx *middleware.NotMatchedContext) *console.Output {
			return ctx.Output
		}),
	)
	requireOutput(output, middleware.PhaseCommandNotMatched)

	return output
}

func (k *Kernel) suggest(name string) []string {
	suggestions := make([]string, 0)
	if "" == name {
		return suggestions
	}

	for _, command := range k.routes.AllFlattened() {
		if strings.Contains(command.Name(), name) {
			suggestions = append(suggestions, command.Name())
		}
	}
	sort.Strings(suggestions)

	return suggestions
}

// performRecover turns a failure into an output through the ThrowableCaught phase.
// In debug mode the recovered value is raised again instead.
func (k *Kernel) performRecover(
	recoveredError interface{},
	trace []byte,
	input *console.Input,
	state *invocationState,
) (output *console.Output) {
	runtimeError := kernelError.NewRuntimeError(recoveredError, trace)

	commandName := ""
	if nil != state.command {
		commandName = state.command.Name()
	}
	k.logger.Error("command failed", logger.Error(runtimeError.Err), logger.Command(commandName))
	k.logger.Debug("command failure trace", logger.Trace(trace))

	if k.debug {
		panic(recoveredError)
	}

	if state.caught || nil == k.chains {
		return newBareFailure()
	}
	state.caught = true

	defer func() {
		// Recover panic inside of panic recovery
		recoveryRecoveredError := recover()
		if nil != recoveryRecoveredError {
			k.logger.Error(
				"middleware failed while handling a failure",
				logger.Phase(middleware.PhaseThrowableCaught),
				slog.Any("error", recoveryRecoveredError),
			)
			output = newBareFailure()
		}
	}()

	output = k.chainsFor(state.command).throwable.Handle(
		&middleware.ThrowableContext{
			Input:   input,
			Command: state.command,
			Error:   runtimeError,
			Trace:   runtimeError.Trace,
			Output:  console.NewErrorOutput(runtimeError),
		},
		pipeline.HandlerFunc[*middleware.ThrowableContext, *console.Output](func(ctx *middleware.ThrowableContext) *console.Output {
			return ctx.Output
		}),
	)
	if nil == output {
		output = newBareFailure()
	}

	return output
}

// Send writes the messages of an output to stdout or stderr.
func (k *Kernel) Send(output *console.Output) {
	if nil == output {
		output = newBareFailure()
	}

	for _, message := range output.Messages() {
		target := k.stdout
		if console.StreamErr == message.Stream {
			target = k.stderr
		}
		_, _ = fmt.Fprintln(target, message.Text)
	}
}

// Terminate runs the Exited phase. It runs once per input, later calls do nothing.
func (k *Kernel) Terminate(input *console.Input, output *console.Output) {
	state := k.invocationState(input)
	if state.exited {
		return
	}
	state.exited = true

	defer func() {
		// Recover should be called directly by a deferred function. https://golang.org/ref/spec#Handling_panics
		recoveredError := recover()
		if nil != recoveredError {
			k.logger.Error("exited phase failed", slog.Any("error", recoveredError))
		}
	}()

	if nil == k.chains {
		return
	}

	k.chainsFor(state.command).exited.Handle(
		&middleware.ExitedContext{Input: input, Command: state.command, Output: output, Started: state.started},
		pipeline.HandlerFunc[*middleware.ExitedContext, *console.Output](func(ctx *middleware.ExitedContext) *console.Output {
			return ctx.Output
		}),
	)
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

// invocationState is kept in the input context, so it goes away with the input.
func (k *Kernel) invocationState(input *console.Input) *invocationState {
	if state, exists := input.Context().Value(invocationStateKey{}).(*invocationState); exists {
		return state
	}

	state := &invocationState{started: time.Now()}
	input.ContextAppend(invocationStateKey{}, state)

	return state
}

func (k *Kernel) readCliConfig() error {
	if nil == k.config || !k.config.IsSet("cli") {
		return nil
	}

	cliConfigObj := cliConfig.CliConfig{}
	if cliConfigError := k.config.UnmarshalKey("cli", &cliConfigObj); nil != cliConfigError {
		return errors.New("failed to read cli config: " + cliConfigError.Error())
	}

	for name, pattern := range cliConfigObj.Patterns {
		k.parser = k.parser.WithPattern(name, pattern)
	}

	for _, phase := range middleware.Phases {
		for _, reference := range cliConfigObj.Middleware[phase] {
			k.Use(phase, reference)
		}
	}

	if cliConfigObj.Cache.Enabled() {
		cache, cacheError := routecache.New(cliConfigObj.Cache, KernelName)
		if nil != cacheError {
			return cacheError
		}
		k.cache = cache
	}

	for commandName := range k.config.GetStringMap("cli.commands") {
		commandConfig := &cliConfig.CommandConfig{}
		commandConfigErr := k.config.UnmarshalKey("cli.commands."+commandName, commandConfig)
		if nil != commandConfigErr {
			return errors.New("failed to read cli commands config: " + commandConfigErr.Error())
		}
		if "" == commandConfig.Path {
			commandConfig.Path = commandName
		}

		definition := commandConfig.Definition(commandName)
		k.definitions = append(k.definitions, definition)
		k.help[commandName] = commandConfig.Help
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
		help:                make(map[string]string),
		namedMiddleware:     make(map[string]interface{}),
		globalMiddleware:    make(map[string][]interface{}),
		commandChains:       make(map[string]*phaseChains),
		closers:             make([]io.Closer, 0),
		eventsRegistry:      commonEventBus.NewDefaultRegistry(),
		applicationEventBus: commonEventBus.NewEventBus(),
		stdout:              os.Stdout,
		stderr:              os.Stderr,
	}

	if nil != configObj {
		kernel.debug = configObj.GetBool("debug")

		if configObj.IsSet("parameters") {
			locator.SetParameters(configObj.GetStringMapString("parameters"))
		}

		if cliConfigError := kernel.readCliConfig(); nil != cliConfigError {
			return nil, cliConfigError
		}
	}

	return kernel, nil
}

//--------------------

func requireOutput(output *console.Output, phase string) {
	if nil == output {
		panic(kernelError.NewNoResponseError(phase))
	}
}

func newBareFailure() *console.Output {
	return console.NewOutput().WriteError("internal error").WithExitCode(console.ExitRuntime)
}
