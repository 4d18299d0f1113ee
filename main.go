package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bitwise74/notes-api/app"
	"bitwise74/notes-api/config"
	"bitwise74/notes-api/db"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.Flags(fs)
	fs.Parse(os.Args[1:])

	if err := config.Setup(fs); err != nil {
		var missing *config.MissingSecretError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		panic(err)
	}

	if err := app.MakeLogger(viper.GetString("app.log_level")); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	conn, err := db.New(viper.GetString("database.driver"), viper.GetString("database.dsn"))
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}

	mailer := &service.SMTPMailer{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: viper.GetString("mail.username"),
		Password: viper.GetString("mail.password"),
		From:     viper.GetString("mail.sender"),
	}

	d := internal.NewDeps(conn, mailer, internal.Options{
		JWTSecret:     viper.GetString("jwt.secret"),
		TokenTTL:      config.TokenTTL(),
		BaseURL:       config.BaseURL(),
		SecureCookies: viper.GetBool("host.ssl_enabled"),
		MailWorkers:   viper.GetInt("mail.workers"),
		MailQueueSize: viper.GetInt("mail.queue_size"),
	})

	reminder := service.NewReminder(d.Notes, d.MailQueue, d.BaseURL)
	if err := reminder.Start(viper.GetString("reminder.schedule")); err != nil {
		zap.L().Fatal("Failed to start reminder", zap.Error(err))
	}

	router := app.NewRouter(d, app.RouterConfig{
		Origins:   config.Origins(),
		RateLimit: viper.GetInt("security.rate_limit"),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(viper.GetInt("host.port")),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to shut down server", zap.Error(err))
	}

	reminder.Stop(shutdownCtx)

	if err := d.MailQueue.Close(shutdownCtx); err != nil {
		zap.L().Error("Mail queue did not drain", zap.Error(err))
	}

	sent, failed := d.MailQueue.Stats()
	zap.L().Info("Shutdown complete", zap.Int64("mailsSent", sent), zap.Int64("mailsFailed", failed))
}
