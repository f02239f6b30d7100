package main

import (
	"go.uber.org/fx"

	"github.com/andrasnagy-data/productdesk/internal/components/auth"
	"github.com/andrasnagy-data/productdesk/internal/components/product"
	"github.com/andrasnagy-data/productdesk/internal/server"
	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
	"github.com/andrasnagy-data/productdesk/internal/shared/config"
	"github.com/andrasnagy-data/productdesk/internal/shared/cookie"
	"github.com/andrasnagy-data/productdesk/internal/shared/dedupe"
	"github.com/andrasnagy-data/productdesk/internal/shared/logging"
	"github.com/andrasnagy-data/productdesk/internal/shared/render"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			apiclient.New,
			cookie.NewJar,
			render.NewRenderer,
			dedupe.NewGuard,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			auth.NewAuthService,
			fx.Annotate(auth.NewRouter, fx.ResultTags(`name:"authRouter"`)),
			product.NewService,
			fx.Annotate(product.NewRouter, fx.ResultTags(`name:"productRouter"`)),
		),
		fx.Invoke(server.Register),
	).Run()
}
