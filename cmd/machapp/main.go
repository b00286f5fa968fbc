package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mach10-org/mach-app/internal/content"
	"github.com/mach10-org/mach-app/internal/localstate"
	"github.com/mach10-org/mach-app/internal/repository"
	"github.com/mach10-org/mach-app/internal/service"
	"github.com/mach10-org/mach-app/pkg/authn"
)

func main() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.S().Info("logger initialized")

	if err := godotenv.Load(); err != nil {
		zap.S().Debug("load .env file", zap.Error(err))
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	postgresPort := os.Getenv("POSTGRES_PORT")
	postgresUser := os.Getenv("POSTGRES_USER")
	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	postgresDB := os.Getenv("POSTGRES_DB")
	contentDir := os.Getenv("CONTENT_DIR")
	stateFile := os.Getenv("STATE_FILE")
	githubClientID := os.Getenv("GITHUB_CLIENT_ID")
	githubClientSecret := os.Getenv("GITHUB_CLIENT_SECRET")
	githubRedirectURI := os.Getenv("GITHUB_REDIRECT_URI")

	if postgresHost == "" || contentDir == "" {
		zap.S().Fatal("missing required environment variables")
	}
	if stateFile == "" {
		stateFile = "machapp.db"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		postgresHost, postgresPort, postgresUser, postgresPassword, postgresDB)

	repo, err := repository.NewDB(dsn, 10, 20)
	if err != nil {
		zap.S().Error("connect to PostgreSQL", zap.Error(err), zap.String("host", postgresHost))
		os.Exit(1)
	}
	defer repo.Close()

	if err = repo.Up("migrations"); err != nil {
		zap.S().Error("run migrations", zap.Error(err))
		os.Exit(1)
	}

	state, err := localstate.Open(stateFile)
	if err != nil {
		zap.S().Error("open local state", zap.Error(err), zap.String("path", stateFile))
		os.Exit(1)
	}
	defer state.Close()

	courses, err := content.Load(osfs.New(contentDir), "courses")
	if err != nil {
		zap.S().Error("load content collection", zap.Error(err), zap.String("dir", contentDir))
		os.Exit(1)
	}

	directories := content.Directories(courses)
	zap.S().Infow("content collection loaded",
		"entries", len(courses.Entries()),
		"courses", len(content.AllCourseIndex(courses)),
		"categories", len(directories),
	)

	profile := service.NewProfile(repo, state)
	learning := service.NewLearning(repo, profile)

	scopes := []string{"read:user", "user:email"}
	auth := authn.NewService(githubClientID, githubClientSecret, githubRedirectURI, scopes)

	connected, err := profile.Connected()
	if err != nil {
		zap.S().Error("read signed-in state", zap.Error(err))
		os.Exit(1)
	}

	if !connected {
		if githubClientID != "" {
			zap.S().Infow("not signed in", "auth_url", auth.AuthURL(auth.NewState()))
		}
		return
	}

	user, err := profile.User()
	if err != nil {
		zap.S().Error("load cached user", zap.Error(err))
		os.Exit(1)
	}
	if user == nil {
		zap.S().Warn("signed-in flag set but no cached user")
		return
	}

	records := learning.Load(context.Background(), user.ID)
	zap.S().Infow("session restored", "user", user.ID, "courses_taken", len(records))
}
