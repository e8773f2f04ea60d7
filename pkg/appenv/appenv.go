package appenv

import (
	"os"
	"strings"
)

// Env is the application runtime environment, taken from APP_ENV.
type Env string

const (
	Production Env = "production"
	Test       Env = "test"
)

// Current returns the effective environment. Empty and unknown values resolve
// to Production so that a missing APP_ENV never loosens behavior.
func Current() Env {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case string(Test):
		return Test
	default:
		return Production
	}
}

func IsProduction() bool { return Current() == Production }
func IsTest() bool       { return Current() == Test }
