package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/mentorhub/internal/app/models"
	appRepos "github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// defaultUser describes an account created on first start
type defaultUser struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Role       appModels.RoleType
	Profession string
	Bio        string
}

var defaultUsers = []defaultUser{
	{
		Username:   "mentor",
		Email:      "mentor@mentorhub.app",
		FirstName:  "Marina",
		LastName:   "Costa",
		Role:       appModels.RoleMentor,
		Profession: "Software Engineer",
		Bio:        "Happy to talk about careers in tech.",
	},
	{
		Username:  "student",
		Email:     "student@mentorhub.app",
		FirstName: "Lucas",
		LastName:  "Pereira",
		Role:      appModels.RoleStudent,
		Bio:       "First year computer science student.",
	},
}

// CreateDefaultData creates one mentor and one student when they do not exist.
// Every failed user is joined into the returned error; the others are still created.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, password string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default users...")

	// MinCost keeps startup fast; these are development accounts
	hashed, err := auth.HashPasswordWithCost(password, bcrypt.MinCost)
	if err != nil {
		return err
	}

	var finalErr error
	for _, du := range defaultUsers {
		if _, err := repos.Users.GetByUsername(ctx, du.Username); err == nil {
			lgr.Debug().Str("username", du.Username).Msg("Default user already exists")
			continue
		} else if !errors.Is(err, apperrors.ErrUserNotFound) {
			lgr.Error().Err(err).Str("username", du.Username).Msg("Error checking default user")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Username:  du.Username,
			Email:     du.Email,
			Password:  hashed,
			FirstName: du.FirstName,
			LastName:  du.LastName,
			IsActive:  true,
		}
		profile := appModels.NewDefaultProfile(0, du.Role)
		profile.Profession = du.Profession
		profile.Bio = du.Bio

		err := repos.Users.Create(ctx, user, profile)
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			// Another instance created it first
			continue
		}
		if err != nil {
			lgr.Error().Err(err).Str("username", du.Username).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("username", du.Username).Str("role", string(du.Role)).Msg("Default user created")
	}

	return finalErr
}
