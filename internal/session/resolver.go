// Package session decides which onboarding/auth phase a user is in. The
// phase is derived, never stored: it is recomputed from the user row after
// every auth-affecting operation.
package session

import "github.com/jainrajat254/projecthub-backend/pkg/models"

// Resolve derives the authentication phase from a user record.
//
// An unverified email always resolves to unauthenticated, regardless of the
// persisted onboarding flags. Onboarding is checked before profile setup, so
// a user with profile_setup_complete=true but onboarding_complete=false is
// still a first-time user.
func Resolve(u *models.User) models.AuthStatus {
	if u == nil || !u.EmailVerified {
		return models.StatusUnauthenticated
	}
	if !u.OnboardingComplete {
		return models.StatusFirstTimeUser
	}
	if !u.ProfileSetupComplete {
		return models.StatusProfileSetupRequired
	}
	return models.StatusAuthenticated
}

// AfterOnboarding is the phase reported once the onboarding flag is set. It
// does not re-check the profile-setup flag: completing onboarding always
// lands on profile setup, even when that flag was already set earlier.
func AfterOnboarding() models.AuthStatus {
	return models.StatusProfileSetupRequired
}

// AfterProfileSetup is the phase reported once profile setup is recorded.
func AfterProfileSetup() models.AuthStatus {
	return models.StatusAuthenticated
}
