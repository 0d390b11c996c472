// Package api serves the mailbox, sending and template endpoints.
package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/masa23/crmmail/inbox"
	"github.com/masa23/crmmail/mailope"
	"github.com/masa23/crmmail/mailsend"
	"github.com/masa23/crmmail/mailtemplate"
	"github.com/masa23/crmmail/model"
)

const (
	defaultSendTimeout  = 30 * time.Second
	defaultProbeTimeout = 10 * time.Second
	pageLimit           = 50
	sentListLimit       = 100
)

// Accounts resolves sending accounts.
type Accounts interface {
	DefaultAccount() (model.EmailAccount, bool)
	Account(id string) (model.EmailAccount, bool)
	ActiveAccounts() []model.EmailAccount
}

// Prober checks that the mailbox can be reached.
type Prober interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Accounts  Accounts
	Inbox     *inbox.Cache
	Templates *mailtemplate.Engine
	Sender    mailsend.Sender
	Prober    Prober
	// Journal may be nil; the sent endpoints then answer 404.
	Journal *mailope.Journal

	SendTimeout  time.Duration
	ProbeTimeout time.Duration
	Now          func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/emails", s.listEmails)
	g.GET("/emails/stats", s.emailStats)
	g.GET("/emails/sent", s.listSent)
	g.GET("/emails/sent/:id/raw", s.rawSent)
	g.GET("/emails/:id", s.getEmail)
	g.PUT("/emails/:id", s.updateEmail)
	g.POST("/emails/send", s.sendEmail)
	g.POST("/emails/refresh", s.refreshEmails)
	g.POST("/emails/test-connection", s.testConnection)

	g.GET("/email-templates", s.listTemplates)
	g.GET("/email-templates/:id", s.getTemplate)
	g.POST("/email-templates/process", s.processTemplate)

	g.GET("/email-accounts", s.listAccounts)
}
