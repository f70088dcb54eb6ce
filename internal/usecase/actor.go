package usecase

import (
	"context"

	"hospital-queue/internal/delivery/http/middleware"
)

// anonymousActor is recorded for unauthenticated data entry.
const anonymousActor = "front-desk"

func actorFromContext(ctx context.Context) string {
	if subject, ok := middleware.GetSubjectFromContext(ctx); ok && subject != "" {
		return subject
	}
	return anonymousActor
}
