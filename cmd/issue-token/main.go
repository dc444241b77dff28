// Command issue-token prints a bearer token for the organizer endpoints,
// signed with the server's JWT_SECRET_KEY.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/tournament-manager/config"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	subject := flag.String("sub", "organizer", "token subject")
	role := flag.String("role", string(models.RoleOrganizer), "organizer or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	switch models.UserRole(*role) {
	case models.RoleOrganizer, models.RoleAdmin:
	default:
		logger.Error("unsupported role", slog.String("role", *role))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	token, err := utils.GenerateJWT([]byte(cfg.JWTSecretKey), *subject, *role, *ttl)
	if err != nil {
		logger.Error("failed to sign token", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(token)
}
