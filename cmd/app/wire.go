//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/dotazy/faqbot/internal/bootstrap"
	"github.com/dotazy/faqbot/internal/domain/chat"
	"github.com/dotazy/faqbot/internal/infra/config"
	httpiface "github.com/dotazy/faqbot/internal/interface/http"
	"github.com/dotazy/faqbot/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChatConfig,
		provideCorpus,
		provideInteractionStore,
		chat.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
