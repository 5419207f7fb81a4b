package config

import "github.com/bassbeaver/gdispatch/helper"

type EventListenerConfig struct {
	EventName string `mapstructure:"event"`
	Listener  string
	Priority  int
}

func (c *EventListenerConfig) ListenerAlias() string {
	return helper.GetStringPart(c.Listener, ":", 0)
}

func (c *EventListenerConfig) ListenerMethod() string {
	return helper.GetStringPart(c.Listener, ":", 1)
}
