package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/k0kubun/pp/v3"
	"github.com/labstack/echo/v4"
	"github.com/masa23/crmmail/inbox"
	"github.com/masa23/crmmail/mailope"
	"github.com/masa23/crmmail/mailsend"
	"github.com/masa23/crmmail/mailtemplate"
	"github.com/masa23/crmmail/model"
)

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type EmailList struct {
	Emails     []model.EmailRecord `json:"emails"`
	Pagination Pagination          `json:"pagination"`
	Status     inbox.Status        `json:"status"`
	Reason     string              `json:"reason,omitempty"`
}

func (s *Server) listEmails(c echo.Context) error {
	snap := s.Inbox.Get(c.Request().Context())
	filter := inbox.Filter{
		Direction: model.Direction(c.QueryParam("direction")),
		Status:    model.Status(c.QueryParam("status")),
		Search:    c.QueryParam("search"),
	}
	emails := filter.Apply(snap.Emails)

	// Pagination is fixed; only total follows the filtered list.
	return c.JSON(200, EmailList{
		Emails:     emails,
		Pagination: Pagination{Page: 1, Limit: pageLimit, Total: len(emails), Pages: 1},
		Status:     snap.Status,
		Reason:     snap.Reason,
	})
}

type StatsResponse struct {
	inbox.Stats
	Status inbox.Status `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

func (s *Server) emailStats(c echo.Context) error {
	snap := s.Inbox.Get(c.Request().Context())
	return c.JSON(200, StatsResponse{
		Stats:  inbox.ComputeStats(snap.Emails),
		Status: snap.Status,
		Reason: snap.Reason,
	})
}

func emailID(c echo.Context) (uint32, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid email id %q", c.Param("id"))
	}
	return uint32(id), nil
}

// getEmail marks an unread inbound message as read in the cache.
func (s *Server) getEmail(c echo.Context) error {
	id, err := emailID(c)
	if err != nil {
		return errorJSON(c, 400, err.Error())
	}

	s.Inbox.Get(c.Request().Context())
	email, err := s.Inbox.Update(id, func(e *model.EmailRecord) {
		if e.Direction == model.DirectionInbound && !e.IsRead {
			e.IsRead = true
		}
	})
	if errors.Is(err, inbox.ErrNotFound) {
		return errorJSON(c, 404, "Email not found")
	}
	return c.JSON(200, email)
}

// updateEmail merges the JSON body into the cached record.
func (s *Server) updateEmail(c echo.Context) error {
	id, err := emailID(c)
	if err != nil {
		return errorJSON(c, 400, err.Error())
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errorJSON(c, 400, "Failed to read request body")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return errorJSON(c, 400, "Invalid JSON body")
	}

	var mergeErr error
	email, err := s.Inbox.Update(id, func(e *model.EmailRecord) {
		merged := *e
		if mergeErr = json.Unmarshal(body, &merged); mergeErr == nil {
			if merged.Images == nil {
				merged.Images = []string{}
			}
			*e = merged
		}
	})
	if errors.Is(err, inbox.ErrNotFound) {
		return errorJSON(c, 404, "Email not found")
	}
	if mergeErr != nil {
		return errorJSON(c, 400, mergeErr.Error())
	}
	return c.JSON(200, email)
}

type SendRequest struct {
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	TextContent string            `json:"textContent"`
	AccountID   string            `json:"accountId"`
	TemplateID  string            `json:"templateId"`
	Variables   map[string]string `json:"variables"`
}

type SendResponse struct {
	Success   bool             `json:"success"`
	MessageID string           `json:"messageId"`
	Status    model.SendStatus `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	AccountID string           `json:"accountId"`
}

// sendEmail reports transport failures as a degraded success with a
// simulated message id.
func (s *Server) sendEmail(c echo.Context) error {
	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, 400, "Invalid request body")
	}

	if req.TemplateID != "" {
		out, err := s.Templates.Process(req.TemplateID, req.Variables)
		if errors.Is(err, mailtemplate.ErrTemplateNotFound) {
			return errorJSON(c, 404, "Template not found")
		}
		req.Subject, req.HTMLContent, req.TextContent = out.Subject, out.HTMLContent, out.TextContent
	}
	if req.To == "" || req.Subject == "" {
		return errorJSON(c, 400, "Recipient and subject are required")
	}

	var account model.EmailAccount
	var ok bool
	if req.AccountID != "" {
		account, ok = s.Accounts.Account(req.AccountID)
	} else {
		account, ok = s.Accounts.DefaultAccount()
	}
	if !ok {
		return errorJSON(c, 400, "Unknown or inactive email account")
	}

	msg := mailsend.FromAccount(account, req.To, req.Subject, req.HTMLContent, req.TextContent)
	msg.Date = s.now()
	if _, err := msg.Recipients(); err != nil {
		return errorJSON(c, 400, "Invalid recipient address: "+err.Error())
	}

	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	sent := model.SentMessage{
		AccountID:  account.ID,
		To:         req.To,
		Subject:    req.Subject,
		TemplateID: req.TemplateID,
	}
	resp := SendResponse{Success: true, AccountID: account.ID}

	result, err := s.Sender.Send(ctx, account, msg)
	if err != nil {
		log.Println(pp.Sprintf("Send failed account=%s to=%s: %v", account.ID, req.To, err))
		resp.MessageID = fmt.Sprintf("simulated-%d", s.now().UnixMilli())
		resp.Status = model.SendDegraded
		resp.Reason = err.Error()
	} else {
		s.Inbox.Invalidate()
		resp.MessageID = result.MessageID
		resp.Status = model.SendOK
	}

	sent.MessageID = resp.MessageID
	sent.Status = resp.Status
	sent.Reason = resp.Reason
	if err := s.Journal.Record(c.Request().Context(), &sent, result.Raw); err != nil && !errors.Is(err, mailope.ErrJournalDisabled) {
		log.Printf("Sent journal: %v", err)
	}

	return c.JSON(200, resp)
}

type RefreshResponse struct {
	Success   bool         `json:"success"`
	Count     int          `json:"count"`
	Timestamp string       `json:"timestamp"`
	Status    inbox.Status `json:"status"`
	Reason    string       `json:"reason,omitempty"`
}

func (s *Server) refreshEmails(c echo.Context) error {
	snap := s.Inbox.Refresh(c.Request().Context())
	return c.JSON(200, RefreshResponse{
		Success:   snap.Status != inbox.StatusError,
		Count:     len(snap.Emails),
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Status:    snap.Status,
		Reason:    snap.Reason,
	})
}

type ConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) testConnection(c echo.Context) error {
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	if err := s.Prober.Ping(ctx); err != nil {
		log.Printf("Connection test failed: %v", err)
		return c.JSON(200, ConnectionResponse{Success: false, Message: "Échec de connexion au serveur IMAP : " + err.Error()})
	}
	return c.JSON(200, ConnectionResponse{Success: true, Message: "Connexion au serveur IMAP réussie"})
}
