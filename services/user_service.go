package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	usernameStrip   = regexp.MustCompile(`[^\p{L}\p{N}_.@+-]+`)
)

type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Bio       string
}

type RegisterInput struct {
	ProfileInput
	Password string
}

type UserService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserService(db *gorm.DB, log *logger.Logger) *UserService {
	return &UserService{db: db, log: log.With("service", "UserService")}
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	verr := &ValidationError{}
	if err := s.validateProfile(ctx, 0, in.ProfileInput, verr); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		verr.add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hashedStr := string(hashed)

	user := models.User{
		Username:  strings.TrimSpace(in.Username),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Password:  &hashedStr,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("User registered", "user_id", user.ID)
	return &user, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the user's password after checking the current
// one. Accounts created through Google have no password to change.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	verr := &ValidationError{}
	if user.Password == nil || bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(oldPassword)) != nil {
		verr.add("old_password", "Your old password was entered incorrectly. Please enter it again.")
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLength {
		verr.add("new_password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", string(hashed)).Error; err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.log.Info("Password changed", "user_id", userID)
	return nil
}

// UpdateProfile edits the viewer's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, lookupErr(err, "user")
	}

	verr := &ValidationError{}
	if err := s.validateProfile(ctx, userID, in, verr); err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return &user, err
	}

	user.Username = strings.TrimSpace(in.Username)
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Bio = in.Bio
	if err := db.Model(&user).Select("username", "first_name", "last_name", "bio").Updates(&user).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// SignInWithGoogle finds the account linked to the Google identity, links
// an existing account with the same email, or creates a new one.
func (s *UserService) SignInWithGoogle(ctx context.Context, info *config.GoogleUserInfo) (*models.User, error) {
	db := s.db.WithContext(ctx)
	if info.ID == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := db.Where("google_id = ?", info.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup google user: %w", err)
	}

	if info.Email != "" && info.VerifiedEmail {
		err = db.Where("email = ?", info.Email).First(&user).Error
		if err == nil {
			googleID := info.ID
			user.GoogleID = &googleID
			if err := db.Model(&user).Update("google_id", googleID).Error; err != nil {
				return nil, fmt.Errorf("link google account: %w", err)
			}
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup user by email: %w", err)
		}
	}

	username, err := s.freeUsername(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	googleID := info.ID
	user = models.User{
		Username:  username,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		GoogleID:  &googleID,
	}
	if info.Email != "" {
		email := info.Email
		user.Email = &email
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create google user: %w", err)
	}
	s.log.Info("User registered via Google", "user_id", user.ID)
	return &user, nil
}

func (s *UserService) freeUsername(ctx context.Context, email string) (string, error) {
	base := email
	if i := strings.Index(base, "@"); i >= 0 {
		base = base[:i]
	}
	base = usernameStrip.ReplaceAllString(base, "")
	if base == "" {
		base = "user"
	}
	taken, err := s.UsernameExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return base + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8], nil
}

func (s *UserService) validateProfile(ctx context.Context, selfID uint, in ProfileInput, verr *ValidationError) error {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		verr.add("username", "This field is required.")
		return nil
	case utf8.RuneCountInString(username) > maxUsernameLength:
		verr.add("username", fmt.Sprintf("Ensure this value has at most %d characters.", maxUsernameLength))
		return nil
	case !usernamePattern.MatchString(username):
		verr.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, selfID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		verr.add("username", "A user with that username already exists.")
	}
	return nil
}
