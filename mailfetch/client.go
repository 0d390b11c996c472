// Package mailfetch reads the newest messages of an IMAP inbox.
package mailfetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/masa23/crmmail/mailparser"
	"github.com/masa23/crmmail/model"
)

const inbox = "INBOX"

// FlagImportant is the keyword some servers set on important messages.
const FlagImportant imap.Flag = "$Important"

// RawMessage is a fetched message before normalization.
type RawMessage struct {
	UID      uint32
	Flags    []imap.Flag
	Subject  string
	FromName string
	FromAddr string
	ToName   string
	ToAddr   string
	Date     time.Time
	TextBody string
	HTMLBody string
	Raw      []byte
	// Decoded is false when the MIME structure could not be parsed and
	// TextBody holds the undecoded message.
	Decoded bool
}

func (m RawMessage) HasFlag(flag imap.Flag) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

type Client struct {
	host     string
	port     int
	tls      bool
	username string
	password string
}

// NewClient configures a client from the account's IMAP settings. The SMTP
// user and password are reused for IMAP login.
func NewClient(account model.EmailAccount) *Client {
	return &Client{
		host:     account.IMAP.Host,
		port:     account.IMAP.Port,
		tls:      account.IMAP.TLS,
		username: account.SMTP.User,
		password: account.SMTP.Password,
	}
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// session is a logged-in client bound to the context that opened it.
type session struct {
	*imapclient.Client
	stop func() bool
}

// closeOnDone closes c once ctx ends, which unblocks pending commands.
// Calling stop detaches it.
func closeOnDone(ctx context.Context, c io.Closer) (stop func() bool) {
	return context.AfterFunc(ctx, func() { c.Close() })
}

func (c *Client) connect(ctx context.Context) (*session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr())
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", c.addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	options := &imapclient.Options{
		WordDecoder: mailparser.WordDecoder(),
		TLSConfig:   &tls.Config{ServerName: c.host},
	}

	var client *imapclient.Client
	if c.tls {
		client = imapclient.New(tls.Client(conn, options.TLSConfig), options)
	} else {
		client, err = imapclient.NewStartTLS(conn, options)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("starttls with %s: %w", c.addr(), err)
		}
	}

	stop := closeOnDone(ctx, client)

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		stop()
		client.Close()
		return nil, fmt.Errorf("authentication failed for %s: %w", c.username, err)
	}
	return &session{Client: client, stop: stop}, nil
}

// logout ends the session and detaches it from its context, so a later
// cancel does not close the client a second time.
func (s *session) logout() {
	defer s.stop()
	if err := s.Logout().Wait(); err != nil {
		s.Close()
	}
}

// Ping logs in and selects the inbox.
func (c *Client) Ping(ctx context.Context) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer client.logout()

	if _, err := client.Select(inbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return fmt.Errorf("selecting %s: %w", inbox, err)
	}
	return nil
}

// Fetch returns up to limit of the newest inbox messages, oldest first.
// Flags are never modified.
func (c *Client) Fetch(ctx context.Context, limit int) ([]RawMessage, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer client.logout()

	if _, err := client.Select(inbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", inbox, err)
	}

	searchData, err := client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return []RawMessage{}, nil
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope:     true,
		Flags:        true,
		UID:          true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	messages := make([]RawMessage, 0, len(uids))
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			continue
		}
		messages = append(messages, fromBuffer(buf, buf.FindBodySection(bodySection)))
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching messages: %w", err)
	}
	return messages, nil
}

func fromBuffer(buf *imapclient.FetchMessageBuffer, body []byte) RawMessage {
	m := RawMessage{
		UID:   uint32(buf.UID),
		Flags: buf.Flags,
		Date:  buf.InternalDate,
		Raw:   body,
	}

	if env := buf.Envelope; env != nil {
		m.Subject = env.Subject
		if !env.Date.IsZero() {
			m.Date = env.Date
		}
		if len(env.From) > 0 {
			m.FromName = env.From[0].Name
			m.FromAddr = env.From[0].Addr()
		}
		if len(env.To) > 0 {
			m.ToName = env.To[0].Name
			m.ToAddr = env.To[0].Addr()
		}
	}

	if body != nil {
		parseBody(&m, body)
	}
	return m
}
