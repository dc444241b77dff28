package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/utils"
)

func GetSubjectFromContext(ctx context.Context) (string, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}
	sub, ok := claims[utils.ClaimSubject].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing '%s' claim in token", utils.ClaimSubject)
	}
	return sub, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}
	roleClaim, ok := claims[utils.ClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", utils.ClaimRole)
	}
	role, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", utils.ClaimRole, roleClaim)
	}

	switch models.UserRole(role) {
	case models.RoleAdmin, models.RoleOrganizer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", role)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
