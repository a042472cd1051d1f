package testutil

import (
	"context"
)

func SetupContext() context.Context {
	return context.Background()
}
