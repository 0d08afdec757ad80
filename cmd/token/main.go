// token emite un JWT para un operador de caja o administrador.
//
// Uso: JWT_SECRET=... go run ./cmd/token -sub caja-1 -role cajero
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/botilleria-pos/pkg/config"
	"github.com/jhoicas/botilleria-pos/pkg/jwt"
)

func main() {
	sub := flag.String("sub", "", "identificador del operador")
	role := flag.String("role", jwt.RoleCajero, "rol: admin | cajero")
	exp := flag.Int("exp", 0, "minutos de validez (0 usa JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "uso: token -sub <operador> [-role admin|cajero] [-exp minutos]")
		os.Exit(1)
	}
	if *role != jwt.RoleAdmin && *role != jwt.RoleCajero {
		fmt.Fprintf(os.Stderr, "rol %q no soportado\n", *role)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *sub, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
