package main

import (
	"os"
	"strings"
	"time"

	"recipe-catalog/internal/client"
)

const serverEnv = "RECIPECTL_SERVER"

type commandContext struct {
	serverFlag  *string
	jsonFlag    *bool
	timeoutFlag *time.Duration
}

func newCommandContext(serverFlag *string, jsonFlag *bool, timeoutFlag *time.Duration) *commandContext {
	return &commandContext{
		serverFlag:  serverFlag,
		jsonFlag:    jsonFlag,
		timeoutFlag: timeoutFlag,
	}
}

func (c *commandContext) serverURL() string {
	if c.serverFlag != nil {
		if s := strings.TrimSpace(*c.serverFlag); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(os.Getenv(serverEnv)); s != "" {
		return s
	}
	return client.DefaultBaseURL
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) withClient(fn func(*client.Client) error) error {
	timeout := 10 * time.Second
	if c.timeoutFlag != nil && *c.timeoutFlag > 0 {
		timeout = *c.timeoutFlag
	}
	return fn(client.New(c.serverURL(), timeout))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
