// @title          Piecework Ledger API
// @version        1.0
// @description    Libro de producción por pieza, montaje de kits y stock de producto terminado.
// @BasePath       /
// @securityDefinitions.apikey Bearer
// @in             header
// @name           Authorization
package main

import "os"

// version se sobreescribe con -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
