package main

import (
	"go.uber.org/fx"

	"github.com/brightwealth/summit/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
