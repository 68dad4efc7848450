package services

import (
  "context"
  "fmt"
  "net/http"
  "net/mail"
  "strings"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"

  "github.com/yungbote/mindjourney-backend/internal/apierr"
  "github.com/yungbote/mindjourney-backend/internal/logger"
  "github.com/yungbote/mindjourney-backend/internal/repos"
  "github.com/yungbote/mindjourney-backend/internal/requestdata"
  "github.com/yungbote/mindjourney-backend/internal/types"
)

type AuthService interface {
  RegisterUser(ctx context.Context, name, email, password string) (*types.User, error)
  LoginUser(ctx context.Context, email, password string) (string, string, error)
  RefreshUser(ctx context.Context) (string, string, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, name, email, password string) (*types.User, error) {
  name = strings.TrimSpace(name)
  email = strings.ToLower(strings.TrimSpace(email))
  if name == "" {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "name is required")
  }
  if _, err := mail.ParseAddress(email); err != nil {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "invalid email address")
  }
  if len(password) < 8 {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "password must be at least 8 characters")
  }
  exists, err := as.userRepo.EmailExists(ctx, nil, email)
  if err != nil {
    return nil, fmt.Errorf("check email: %w", err)
  }
  if exists {
    return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeValidation, "email is already registered")
  }
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    return nil, fmt.Errorf("hash password: %w", err)
  }
  user := &types.User{
    ID:       uuid.New(),
    Name:     name,
    Email:    email,
    Password: string(hashed),
  }
  if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
    return nil, fmt.Errorf("create user: %w", err)
  }
  as.log.Info("User registered", "user_id", user.ID)
  return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return "", "", fmt.Errorf("look up user: %w", err)
  }
  if len(users) == 0 {
    return "", "", apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid email or password")
  }
  user := users[0]
  if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
    return "", "", apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid email or password")
  }

  var accessToken, refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if err != nil {
      return fmt.Errorf("check user tokens: %w", err)
    }
    expired := make([]uuid.UUID, 0, len(existing))
    for _, tok := range existing {
      expired = append(expired, tok.ID)
    }
    if err := as.userTokenRepo.FullDeleteByIDs(ctx, tx, expired); err != nil {
      return fmt.Errorf("delete stale user tokens: %w", err)
    }

    accessToken, err = as.generateAccessToken(user)
    if err != nil {
      return fmt.Errorf("generate access token: %w", err)
    }
    refreshToken = uuid.New().String()
    userToken := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
      return fmt.Errorf("create user token: %w", err)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.RefreshToken == "" {
    return "", "", apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "missing refresh token")
  }
  current, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, rd.RefreshToken)
  if err != nil {
    return "", "", apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid refresh token")
  }
  if current.ExpiresAt.Before(time.Now()) {
    return "", "", apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "refresh token expired")
  }
  users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{current.UserID})
  if err != nil || len(users) == 0 {
    return "", "", apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "user not found")
  }
  user := users[0]

  var accessToken, refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{current.ID}); err != nil {
      return fmt.Errorf("delete previous token: %w", err)
    }
    accessToken, err = as.generateAccessToken(user)
    if err != nil {
      return fmt.Errorf("generate access token: %w", err)
    }
    refreshToken = uuid.New().String()
    userToken := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
      return fmt.Errorf("create user token: %w", err)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "missing token")
  }
  current, err := as.userTokenRepo.GetByAccessToken(ctx, nil, rd.TokenString)
  if err != nil {
    return nil
  }
  return as.userTokenRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{current.ID})
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return ctx, apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid or expired token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return ctx, apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid token claims")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return ctx, apierr.Newf(http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid token subject")
  }
  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "sub": user.ID.String(),
    "iat": now.Unix(),
    "exp": now.Add(as.accessTTL).Unix(),
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}
