// Package app assembles the HTTP surface of the notes service
package app

import (
	"time"

	"bitwise74/notes-api/app/note"
	"bitwise74/notes-api/app/root"
	"bitwise74/notes-api/app/user"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxBodySize caps every JSON request body
const MaxBodySize = 1 << 20

type RouterConfig struct {
	Origins []string
	// RateLimit is the allowed requests per second per client IP. Zero
	// disables the limiter.
	RateLimit int
}

func NewRouter(d *internal.Deps, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.Origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString(middleware.RequestIDKey); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString(middleware.UserIDKey); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	jwt := middleware.NewJWTMiddleware(d.Tokens, d.Users)

	handlers := []gin.HandlerFunc{middleware.BodySizeLimiter(MaxBodySize)}
	if cfg.RateLimit > 0 {
		handlers = append(handlers, middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateLimit * 2,
			CleanupInterval:   time.Minute,
			TTL:               10 * time.Minute,
		}))
	}

	main := router.Group("/api", handlers...)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		main.GET("/validate", jwt, root.Validate)
	}

	users := main.Group("/users")
	{
		// POST /api/users/register	-> Registers a new user and mails a verification link
		users.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login 	-> Logs in a user and sets the jwt cookie
		users.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/users/logout	-> Clears the jwt cookie
		users.POST("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/users/me		-> Returns the authenticated user
		users.GET("/me", jwt, func(c *gin.Context) { user.UserFetch(c, d) })

		// POST /api/users/verify-email/:token	-> Marks the email of a user as verified
		users.POST("/verify-email/:token", func(c *gin.Context) { user.UserVerify(c, d) })

		// POST /api/users/request-password-reset	-> Mails a password reset link
		users.POST("/request-password-reset", func(c *gin.Context) { user.UserRequestPasswordReset(c, d) })

		// PATCH /api/users/reset_password_confirm/:uidb64/:token	-> Sets a new password
		users.PATCH("/reset_password_confirm/:uidb64/:token", func(c *gin.Context) { user.UserResetPasswordConfirm(c, d) })
	}

	notes := main.Group("/notes", jwt)
	{
		// GET /api/notes		-> Returns the notes of the user
		notes.GET("", func(c *gin.Context) { note.NoteFetchOwn(c, d) })

		// GET /api/notes/		-> Returns the notes of every user
		notes.GET("/", func(c *gin.Context) { note.NoteFetchAll(c, d) })

		// POST /api/notes/create	-> Creates a new note
		notes.POST("/create", func(c *gin.Context) { note.NoteCreate(c, d) })

		// GET /api/notes/note/:id	-> Returns a note by its ID
		notes.GET("/note/:id", func(c *gin.Context) { note.NoteFetch(c, d) })

		// PUT /api/notes/note/:id	-> Replaces a note owned by the user
		notes.PUT("/note/:id", func(c *gin.Context) { note.NoteEdit(c, d) })

		// DELETE /api/notes/note/:id	-> Deletes a note owned by the user
		notes.DELETE("/note/:id", func(c *gin.Context) { note.NoteDelete(c, d) })

		// GET /api/notes/unfinished	-> Returns the user's notes that aren't complete
		notes.GET("/unfinished", func(c *gin.Context) { note.NoteFetchUnfinished(c, d) })

		// GET /api/notes/finished	-> Returns the user's completed notes
		notes.GET("/finished", func(c *gin.Context) { note.NoteFetchFinished(c, d) })

		// GET /api/notes/overdue	-> Returns the user's notes that are past their due date
		notes.GET("/overdue", func(c *gin.Context) { note.NoteFetchOverdue(c, d) })

		// GET /api/notes/order-*/:order	-> Sorted listings, :order is asc or desc
		notes.GET("/order-duedate/:order", func(c *gin.Context) { note.NoteOrder(c, d, store.SortDueDate) })
		notes.GET("/order-priority/:order", func(c *gin.Context) { note.NoteOrder(c, d, store.SortPriority) })
		notes.GET("/order-created-at/:order", func(c *gin.Context) { note.NoteOrder(c, d, store.SortCreatedAt) })

		// GET /api/notes/generate-csv	-> Downloads the user's notes as CSV
		notes.GET("/generate-csv", func(c *gin.Context) { note.NoteGenerateCSV(c, d) })

		// GET /api/notes/generate-pdf	-> Downloads the user's notes as PDF
		notes.GET("/generate-pdf", func(c *gin.Context) { note.NoteGeneratePDF(c, d) })

		// POST /api/notes/mail-notes	-> Mails the notes of the user to them
		notes.POST("/mail-notes", func(c *gin.Context) { note.NoteMail(c, d) })
	}

	return router
}
