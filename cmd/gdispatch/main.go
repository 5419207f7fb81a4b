package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bassbeaver/gdispatch/cli"
	"github.com/bassbeaver/gdispatch/cli/command"
	cliMiddleware "github.com/bassbeaver/gdispatch/cli/middleware"
	commonConfig "github.com/bassbeaver/gdispatch/config"
	"github.com/bassbeaver/gdispatch/container"
	"github.com/bassbeaver/gdispatch/helper"
	"github.com/bassbeaver/gdispatch/logger"
	"github.com/bassbeaver/gdispatch/web"
	webMiddleware "github.com/bassbeaver/gdispatch/web/middleware"
)

const serveCommand = "serve"

func main() {
	// .env is optional
	_ = godotenv.Load()

	defaultConfigPath := os.Getenv(helper.EnvPrefix + "_CONFIG_PATH")
	if "" == defaultConfigPath {
		defaultConfigPath = "config"
	}
	configPath := flag.String("config", defaultConfigPath, "configuration file or directory")
	flag.Parse()

	configObj, configError := helper.BuildConfigFromDir(*configPath)
	if nil != configError {
		fmt.Fprintln(os.Stderr, configError.Error())
		os.Exit(1)
	}

	loggingConfig := commonConfig.LoggingConfig{}
	if loggingConfigError := configObj.UnmarshalKey("logging", &loggingConfig); nil != loggingConfigError {
		fmt.Fprintln(os.Stderr, "failed to read logging config: "+loggingConfigError.Error())
		os.Exit(1)
	}
	log := logger.New(loggingConfig)
	locator := container.NewLocator()

	webKernel, webKernelError := web.NewKernelWithConfig(configObj, locator, log)
	if nil != webKernelError {
		log.Error("failed to create web kernel", logger.Error(webKernelError))
		os.Exit(1)
	}
	webKernel.Use(webMiddleware.PhaseRequestReceived, webMiddleware.NewRequestID())

	if serveCommand == flag.Arg(0) {
		if runError := webKernel.Run(); nil != runError {
			log.Error("web kernel stopped with errors", logger.Error(runError))
			os.Exit(1)
		}

		return
	}

	cliKernel, cliKernelError := cli.NewKernelWithConfig(configObj, locator, log)
	if nil != cliKernelError {
		log.Error("failed to create cli kernel", logger.Error(cliKernelError))
		os.Exit(1)
	}
	cliKernel.Use(cliMiddleware.PhaseExited, cliMiddleware.NewLogging(log))

	command.Register(cliKernel, webKernel, webKernel.GetRouteCache(), web.KernelName)

	exitCode := cliKernel.Run(flag.Args())

	// routes:* commands may have booted the web kernel and opened its connections
	closeErrors := make([]error, 0)
	webKernel.Close(&closeErrors)
	for _, closeError := range closeErrors {
		log.Error("failed to close web kernel", logger.Error(closeError))
	}

	os.Exit(int(exitCode))
}
