//go:build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/p-n-ai/pai-tracker/internal/app"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// InitializeApp wires the application components together.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		provideConfig,
		provideOutput,
		provideLogger,
		provideNotifier,
		providePrefs,
		provideEvents,
		store.New,
		provideClient,
		provideAuthenticator,
		provideSession,
		app.New,
	)
	return nil, nil, nil
}
