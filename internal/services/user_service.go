package services

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/aidana-b/moodiary/internal/models"
	"github.com/aidana-b/moodiary/internal/repository"
	"github.com/aidana-b/moodiary/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var handleRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// UserService encapsulates the business logic for accounts and profiles.
type UserService struct {
	repo        *repository.UserRepository
	profileRepo *repository.ProfileRepository
	frontendURL string
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, profileRepo *repository.ProfileRepository, frontendURL string) *UserService {
	return &UserService{
		repo:        repo,
		profileRepo: profileRepo,
		frontendURL: frontendURL,
	}
}

// RegisterUser creates an account and its profile record, then sends a
// verification email. Account and profile are two sequential writes.
func (s *UserService) RegisterUser(ctx context.Context, emailAddr, password, handle, displayName string) (*models.User, error) {
	logrus.Info("Registering new user")

	if emailAddr == "" || password == "" || handle == "" || displayName == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required user fields")
	}

	if !emailRegex.MatchString(emailAddr) {
		logrus.WithField("email", emailAddr).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	if !handleRegex.MatchString(handle) {
		logrus.WithField("handle", handle).Warn("Invalid handle during registration")
		return nil, fmt.Errorf("handle must be 3-30 lowercase letters, digits or underscores")
	}

	if existingUser, _ := s.repo.GetUserByEmail(ctx, emailAddr); existingUser != nil {
		logrus.WithField("email", emailAddr).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	if existingProfile, _ := s.profileRepo.GetProfileByHandle(ctx, handle); existingProfile != nil {
		logrus.WithField("handle", handle).Warn("Handle already taken")
		return nil, fmt.Errorf("handle already taken")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:          emailAddr,
		HashedPassword: string(hashedPwd),
		Role:           "user",
		IsVerified:     false,
		VerifyToken:    uuid.NewString(),
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	profile := &models.Profile{
		OwnerUserID: createdUser.ID,
		Handle:      handle,
		DisplayName: displayName,
	}
	if _, err := s.profileRepo.CreateProfile(ctx, profile); err != nil {
		// Account exists without a profile; surfaced, no rollback.
		logrus.WithError(err).Error("Profile write failed after user write")
		return nil, fmt.Errorf("failed to create profile: %v", err)
	}

	verificationLink := fmt.Sprintf("%s/users/verify?token=%s", s.frontendURL, user.VerifyToken)
	emailBody := fmt.Sprintf("Welcome to Moodiary!\n\nPlease verify your email by clicking the link below:\n%s", verificationLink)

	if err := email.SendEmail(createdUser.Email, "Email Verification", emailBody); err != nil {
		logrus.WithError(err).Error("Failed to send verification email")
		return nil, fmt.Errorf("failed to send verification email")
	}

	logrus.Infof("Sent verification email to %s", createdUser.Email)
	return createdUser, nil
}

// AuthenticateUser checks credentials and returns the user on success.
func (s *UserService) AuthenticateUser(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !user.IsVerified {
		return nil, fmt.Errorf("email is not verified")
	}

	return user, nil
}

// VerifyEmail marks the account matching the token as verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerifyToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid verification token")
	}

	err = s.repo.UpdateUser(ctx, user.ID, bson.M{
		"is_verified":  true,
		"verify_token": "",
	})
	if err != nil {
		return fmt.Errorf("failed to verify email: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("Email verified")
	return nil
}

// GetUser fetches a user account by id.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// GetProfile fetches a profile by its document id.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	return s.profileRepo.GetProfileByID(ctx, id)
}

// GetProfileByOwner returns the profile owned by a user account.
func (s *UserService) GetProfileByOwner(ctx context.Context, ownerUserID primitive.ObjectID) (*models.Profile, error) {
	return s.profileRepo.GetProfileByOwner(ctx, ownerUserID)
}

// SearchProfileByHandle is the add-friend entry point: it resolves a
// handle to the profile it belongs to. Unlike the best-effort reads in
// the trend and projection paths, a failure here is reported, since the
// lookup is the whole point of the call.
func (s *UserService) SearchProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByHandle(ctx, handle)
	if err != nil {
		logrus.WithField("handle", handle).WithError(err).Warn("Profile search failed")
		return nil, fmt.Errorf("no profile found for handle %q", handle)
	}
	return profile, nil
}

// UpdateProfile updates the caller's display name and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, ownerUserID primitive.ObjectID, displayName, avatarURL string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %v", err)
	}

	fields := bson.M{}
	if displayName != "" {
		fields["display_name"] = displayName
	}
	if avatarURL != "" {
		fields["avatar_url"] = avatarURL
	}
	if len(fields) == 0 {
		return profile, nil
	}

	if err := s.profileRepo.UpdateProfile(ctx, profile.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}

	return s.profileRepo.GetProfileByID(ctx, profile.ID)
}

// DeleteAccount removes the user's profile record and then the account
// itself, two sequential deletes with no rollback.
func (s *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	profile, err := s.profileRepo.GetProfileByOwner(ctx, userID)
	if err == nil {
		if err := s.profileRepo.DeleteProfile(ctx, profile.ID); err != nil {
			return fmt.Errorf("failed to delete profile: %v", err)
		}
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		logrus.WithError(err).Error("Account delete failed after profile delete")
		return fmt.Errorf("failed to delete account: %v", err)
	}

	logrus.WithField("userID", userID.Hex()).Info("Account deleted")
	return nil
}

// UpdateLastActive stamps the user's last activity time.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}
