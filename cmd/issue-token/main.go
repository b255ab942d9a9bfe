package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go-ppm-dashboard/internal/config"
	"go-ppm-dashboard/pkg/jwt"
	"go-ppm-dashboard/pkg/logger"
)

// issue-token prints a bearer token for an operator, signed with JWT_SECRET.
func main() {
	name := flag.String("name", "admin", "operator name")
	privs := flag.String("privileges", "", "comma-separated privileges (default: all)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "error", err)
	}
	if cfg.Auth.Secret == "" {
		log.Warn("JWT_SECRET is empty, using the development secret")
	}

	privileges := jwt.AllPrivileges
	if *privs != "" {
		privileges = strings.Split(*privs, ",")
	}

	token, err := jwt.NewSigner(cfg.Auth.Secret, *ttl).GenerateToken(*name, privileges)
	if err != nil {
		log.Fatal("failed to sign token", "error", err)
	}
	log.Info("token issued", "operator", *name, "privileges", privileges, "expires", time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Fprintln(os.Stdout, token)
}
