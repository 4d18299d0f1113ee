package internal

import (
	"time"

	"bitwise74/notes-api/internal/service"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/security"

	"gorm.io/gorm"
)

type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	BaseURL       string
	SecureCookies bool
	MailWorkers   int
	MailQueueSize int
}

// Deps holds everything the handlers need. It's built once at startup and
// shared by all requests.
type Deps struct {
	DB        *gorm.DB
	Argon     *security.ArgonHash
	Tokens    *security.TokenService
	Users     *store.UserStore
	Notes     *store.NoteStore
	Mailer    service.Mailer
	MailQueue *service.MailQueue
	Accounts  *service.Accounts

	BaseURL       string
	SecureCookies bool
}

// NewDeps wires the stores and services together and starts the mail queue
// workers
func NewDeps(db *gorm.DB, mailer service.Mailer, o Options) *Deps {
	d := &Deps{
		DB:            db,
		Argon:         security.New(),
		Tokens:        security.NewTokenService(o.JWTSecret, o.TokenTTL),
		Mailer:        mailer,
		MailQueue:     service.NewMailQueue(mailer, o.MailWorkers, o.MailQueueSize),
		BaseURL:       o.BaseURL,
		SecureCookies: o.SecureCookies,
	}

	d.Users = store.NewUserStore(db, d.Argon)
	d.Notes = store.NewNoteStore(db)
	d.Accounts = &service.Accounts{
		Users:   d.Users,
		Tokens:  d.Tokens,
		Queue:   d.MailQueue,
		BaseURL: o.BaseURL,
	}

	d.MailQueue.StartWorkerPool()

	return d
}
